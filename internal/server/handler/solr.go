package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/takatori/threadsearch/internal/search"
	"github.com/takatori/threadsearch/internal/search/solr"
)

type SolrAdmin interface {
	CreateCollection(ctx context.Context, name string, numShards, replicationFactor int) error
	AddFields(ctx context.Context, collection string, fields []solr.SchemaField) error
}

// SolrSetupParams はSolrのセットアップに必要なパラメータを定義します
type SolrSetupParams struct {
	CollectionName    string `json:"collectionName" validate:"required"`
	NumShards         int    `json:"numShards" validate:"required"`
	ReplicationFactor int    `json:"replicationFactor" validate:"required"`
}

// SolrSchemaParams はスキーマ設定に必要なパラメータを定義します
// Fields が空の場合は投稿用のフィールドを追加します
type SolrSchemaParams struct {
	CollectionName string             `json:"collectionName" validate:"required"`
	Fields         []solr.SchemaField `json:"fields"`
}

// NewSetupSolrHandlerはApache Solrのセットアップを行うエンドポイントを返す
// SolrCloudのCollectionを作成する
func NewSetupSolrHandler(admin SolrAdmin) func(echo.Context) error {
	return func(c echo.Context) error {
		var params SolrSetupParams
		if err := c.Bind(&params); err != nil || params.CollectionName == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		if params.NumShards <= 0 {
			params.NumShards = 1
		}
		if params.ReplicationFactor <= 0 {
			params.ReplicationFactor = 1
		}

		err := admin.CreateCollection(c.Request().Context(), params.CollectionName, params.NumShards, params.ReplicationFactor)
		if err != nil {
			return errorResponse(c, err)
		}

		return c.JSON(http.StatusOK, map[string]string{"message": "Collection created successfully"})
	}
}

// NewSetupSolrSchemaHandler はSolrのコレクションのschemaを設定するエンドポイントを返します
func NewSetupSolrSchemaHandler(admin SolrAdmin) func(c echo.Context) error {
	return func(c echo.Context) error {
		var params SolrSchemaParams
		if err := c.Bind(&params); err != nil || params.CollectionName == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		fields := params.Fields
		if len(fields) == 0 {
			fields = solr.PostingFields
		}

		if err := admin.AddFields(c.Request().Context(), params.CollectionName, fields); err != nil {
			return errorResponse(c, err)
		}

		return c.JSON(http.StatusOK, map[string]string{"message": "Schema updated successfully"})
	}
}

// NewFeedSolrDataHandler はアップロードされたJSONファイルの投稿を一括でインデックスするエンドポイントを返します
func NewFeedSolrDataHandler(engine search.Engine) func(c echo.Context) error {
	return func(c echo.Context) error {
		collectionName := c.FormValue("collectionName")

		file, err := c.FormFile("file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "file is required"})
		}

		f, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to open file"})
		}
		defer f.Close()

		fileBytes, err := io.ReadAll(f)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to read file"})
		}

		var docs []search.Document
		if err := json.Unmarshal(fileBytes, &docs); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Failed to parse JSON file"})
		}
		for _, doc := range docs {
			if doc.ID == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "every document needs an id"})
			}
		}

		if err := engine.Index(c.Request().Context(), collectionName, docs); err != nil {
			return errorResponse(c, err)
		}

		return c.JSON(http.StatusOK, map[string]interface{}{"message": "Data fed to Solr successfully", "indexed": len(docs)})
	}
}
