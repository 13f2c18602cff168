package service

import (
	"context"

	"github.com/mmcdole/cinedex/internal/domain"
)

// maxCollectPages bounds multi-page collection
const maxCollectPages = 10

// collectPages fetches up to maxPages consecutive pages starting at first and
// merges their results. The returned page reports the last page fetched.
func collectPages[T any](
	ctx context.Context,
	fetch func(ctx context.Context, page int) (*domain.Page[T], error),
	first, maxPages int,
	onProgress func(loaded, total int),
) (*domain.Page[T], error) {
	if first < 1 {
		first = 1
	}
	if maxPages < 1 {
		maxPages = 1
	}
	if maxPages > maxCollectPages {
		maxPages = maxCollectPages
	}

	merged := &domain.Page[T]{Page: first, Results: []T{}}
	for n := first; n < first+maxPages; n++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		p, err := fetch(ctx, n)
		if err != nil {
			return nil, err
		}

		merged.Results = append(merged.Results, p.Results...)
		merged.Page = p.Page
		merged.TotalPages = p.TotalPages
		merged.TotalResults = p.TotalResults

		if onProgress != nil {
			onProgress(len(merged.Results), p.TotalResults)
		}

		if !p.HasNext() || len(p.Results) == 0 {
			break
		}
	}

	return merged, nil
}
