package internal

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type RunEnv string

const (
	Development RunEnv = "development"
	Production  RunEnv = "production"
)

type Config struct {
	Env      RunEnv `envconfig:"ENV" default:"development"`
	EchoAddr string `envconfig:"ECHO_ADDR" default:":8080"`

	SolrUrl         string `envconfig:"SOLR_URL" default:"http://solr:8983/solr"`
	SolrCollection  string `envconfig:"SOLR_COLLECTION" default:"postings"`
	SolrBulkSize    int    `envconfig:"SOLR_BULK_SIZE" default:"500"`
	SolrBulkWorkers int    `envconfig:"SOLR_BULK_WORKERS" default:"4"`

	ForumUrl         string  `envconfig:"FORUM_URL" default:"https://hacker-news.firebaseio.com/v0"`
	ForumConcurrency int     `envconfig:"FORUM_CONCURRENCY" default:"8"`
	ForumRate        float64 `envconfig:"FORUM_RATE" default:"20"`

	HttpTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	DBPath         string        `envconfig:"DB_PATH" default:"threadsearch.db"`
	UpdateInterval time.Duration `envconfig:"UPDATE_INTERVAL" default:"15m"`
	SavedQueries   string        `envconfig:"SAVED_QUERIES" default:"queries.yaml"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
