package web_search

import (
	"context"
	"errors"

	"github.com/mohsen-qasemi/herald/tools/web_search/brave"
	"github.com/mohsen-qasemi/herald/tools/web_search/models"
	"github.com/mohsen-qasemi/herald/tools/web_search/serper"
)

// WebSearcher answers general and news-flavoured queries.
type WebSearcher interface {
	Search(ctx context.Context, q string, k int) ([]models.Result, error)
	News(ctx context.Context, topic string, k int) ([]models.Result, error)
}

type Provider string

const (
	SerperProvider Provider = "serper"
	BraveProvider  Provider = "brave"
)

var ErrUnsupportedProvider = errors.New("unsupported search provider")

func NewWebSearcher(provider Provider, apiKey string) (WebSearcher, error) {
	switch provider {
	case SerperProvider:
		return serper.Search{ApiKey: apiKey}, nil
	case BraveProvider:
		return brave.Search{ApiKey: apiKey}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
