// Package elasticsearch provides the concrete core/index.Index backing
// store: an Elasticsearch-indexed inverted index, one ES index per
// matching run/record.Config pair.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/goto/salt/log"
)

// Config is the client's connection configuration.
type Config struct {
	Brokers string `mapstructure:"brokers" default:"http://localhost:9200"`
}

type Client struct {
	client *elasticsearch.Client
	logger log.Logger
}

type ClientOption func(*Client)

func WithClient(cli *elasticsearch.Client) ClientOption {
	return func(c *Client) { c.client = cli }
}

func NewClient(logger log.Logger, cfg Config, opts ...ClientOption) (*Client, error) {
	c := &Client{logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	if c.client != nil {
		return c, nil
	}

	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: strings.Split(cfg.Brokers, ","),
	})
	if err != nil {
		return nil, err
	}
	c.client = esClient
	return c, nil
}

func (c *Client) Init(ctx context.Context) (string, error) {
	res, err := c.client.Info(c.client.Info.WithContext(ctx))
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.IsError() {
		return "", errors.New(res.Status())
	}

	var info struct {
		ClusterName string `json:"cluster_name"`
		Version     struct {
			Number string `json:"number"`
		} `json:"version"`
	}
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return "", err
	}
	return fmt.Sprintf("%q (server version %s)", info.ClusterName, info.Version.Number), nil
}

func (c *Client) indexExists(ctx context.Context, name string) (bool, error) {
	res, err := c.client.Indices.Exists(
		[]string{name},
		c.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("indexExists: %w", elasticSearchError(err))
	}
	defer res.Body.Close()
	return res.StatusCode == 200, nil
}

func (c *Client) createIdx(ctx context.Context, name, mapping string) error {
	res, err := c.client.Indices.Create(
		name,
		c.client.Indices.Create.WithBody(strings.NewReader(mapping)),
		c.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return elasticSearchError(err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("error creating index %q: %s", name, errorReasonFromResponse(res))
	}
	return nil
}

func errorReasonFromResponse(res *esapi.Response) string {
	var response struct {
		Error struct {
			Reason string `json:"reason"`
		} `json:"error"`
	}
	var buf bytes.Buffer
	if err := json.NewDecoder(io.TeeReader(res.Body, &buf)).Decode(&response); err != nil {
		return fmt.Sprintf("raw response = %s", buf.String())
	}
	return response.Error.Reason
}

func elasticSearchError(err error) error {
	return fmt.Errorf("elasticsearch error: %w", err)
}
