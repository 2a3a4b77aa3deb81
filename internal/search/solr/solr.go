package solr

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/samber/lo"
	"github.com/takatori/threadsearch/internal"
	"github.com/takatori/threadsearch/internal/infra"
	"github.com/takatori/threadsearch/internal/query"
	"github.com/takatori/threadsearch/internal/search"
	"golang.org/x/sync/errgroup"
)

type SolrEngine struct {
	config     *internal.Config
	httpClient *infra.HttpClient
}

// SchemaField is a field definition for the Schema API add-field command.
type SchemaField struct {
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Stored      bool   `json:"stored"`
	Indexed     bool   `json:"indexed"`
	MultiValued bool   `json:"multiValued"`
}

// PostingFields is the schema a postings collection needs.
var PostingFields = []SchemaField{
	{Name: "thread_id", Type: "string", Stored: true, Indexed: true},
	{Name: "author", Type: "string", Stored: true, Indexed: true},
	{Name: "posted_at", Type: "pdate", Stored: true, Indexed: true},
	{Name: "text", Type: "text_general", Stored: true, Indexed: true},
}

// NewSolrEngine creates a new SolrEngine with the given config
// and initializes the HTTP client
func NewSolrEngine(config *internal.Config) *SolrEngine {
	return &SolrEngine{
		config:     config,
		httpClient: infra.NewHttpClient(config.HttpTimeout),
	}
}

// NewSolrEngineWithClient creates a new SolrEngine with the given config
// and HTTP client
func NewSolrEngineWithClient(config *internal.Config, httpClient *infra.HttpClient) *SolrEngine {
	return &SolrEngine{
		config:     config,
		httpClient: httpClient,
	}
}

var _ search.Engine = (*SolrEngine)(nil)

func (s *SolrEngine) collection(name string) string {
	if name == "" {
		return s.config.SolrCollection
	}
	return name
}

// Index posts docs to the update handler in chunks of SolrBulkSize, with at
// most SolrBulkWorkers chunks in flight. The first failing chunk cancels the
// rest.
func (s *SolrEngine) Index(ctx context.Context, collection string, docs []search.Document) error {
	if len(docs) == 0 {
		return nil
	}
	collection = s.collection(collection)
	updateURL := fmt.Sprintf("%s/%s/update?commit=true", s.config.SolrUrl, url.PathEscape(collection))

	chunks := lo.Chunk(docs, max(s.config.SolrBulkSize, 1))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.config.SolrBulkWorkers, 1))
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			var solrResp map[string]interface{}
			err := s.httpClient.Post(
				ctx,
				infra.PostRequest{
					Request: infra.Request{
						Url: updateURL,
					},
					Entity: chunk,
				},
				&solrResp,
			)
			if err != nil {
				return fmt.Errorf("failed to index chunk %d: %w", i, err)
			}
			slog.DebugContext(ctx, "indexed chunk", "collection", collection, "chunk", i, "docs", len(chunk))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.InfoContext(ctx, "indexed documents", "collection", collection, "docs", len(docs), "chunks", len(chunks))
	return nil
}

func (s *SolrEngine) Search(ctx context.Context, collection string, q *query.Node, opts search.Options) (search.Result, error) {
	collection = s.collection(collection)
	reqBody := transformSearchRequest(q, opts)
	queryURL := fmt.Sprintf("%s/%s/query", s.config.SolrUrl, url.PathEscape(collection))

	var solrResp map[string]interface{}
	err := s.httpClient.Post(
		ctx,
		infra.PostRequest{
			Request: infra.Request{
				Url: queryURL,
			},
			Entity: reqBody,
		},
		&solrResp,
	)
	if err != nil {
		return search.Result{}, fmt.Errorf("failed to send post request: %w", err)
	}

	return transformSearchResponse(solrResp), nil
}

// CreateCollection creates a SolrCloud collection through the Collections API.
func (s *SolrEngine) CreateCollection(ctx context.Context, name string, numShards, replicationFactor int) error {
	params := url.Values{}
	params.Set("action", "CREATE")
	params.Set("name", name)
	params.Set("numShards", fmt.Sprintf("%d", numShards))
	params.Set("replicationFactor", fmt.Sprintf("%d", replicationFactor))

	var solrResp map[string]interface{}
	err := s.httpClient.Get(
		ctx,
		infra.Request{
			Url: fmt.Sprintf("%s/admin/collections?%s", s.config.SolrUrl, params.Encode()),
		},
		&solrResp,
	)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// AddFields adds field definitions to a collection through the Schema API.
func (s *SolrEngine) AddFields(ctx context.Context, collection string, fields []SchemaField) error {
	payload := map[string]interface{}{
		"add-field": fields,
	}

	var solrResp map[string]interface{}
	err := s.httpClient.Post(
		ctx,
		infra.PostRequest{
			Request: infra.Request{
				Url: fmt.Sprintf("%s/%s/schema", s.config.SolrUrl, url.PathEscape(s.collection(collection))),
			},
			Entity: payload,
		},
		&solrResp,
	)
	if err != nil {
		return fmt.Errorf("failed to update schema: %w", err)
	}
	return nil
}
