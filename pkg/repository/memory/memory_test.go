package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/model"
	"github.com/mirrorkeep/mirrorkeep/pkg/repository"
	"github.com/mirrorkeep/mirrorkeep/pkg/repository/memory"
)

func TestGetNotFound(t *testing.T) {
	ctx := context.Background()
	catalog := memory.New()

	_, err := catalog.Get(ctx, 1)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestPutAndGet(t *testing.T) {
	ctx := context.Background()
	catalog := memory.New()

	record := &model.CatalogRecord{
		ID:            1,
		Name:          "tools",
		Description:   "misc scripts",
		DefaultBranch: "main",
		UpdatedAt:     "2021-01-01T00:00:00Z",
	}
	gt.NoError(t, catalog.Put(ctx, record))

	got := gt.R1(catalog.Get(ctx, 1)).NoError(t)
	gt.V(t, got).Equal(record)

	// Returned record is a copy, not shared state.
	got.Name = "mutated"
	again := gt.R1(catalog.Get(ctx, 1)).NoError(t)
	gt.V(t, again.Name).Equal("tools")
}

func TestPutDuplicate(t *testing.T) {
	ctx := context.Background()
	catalog := memory.New()

	record := &model.CatalogRecord{ID: 1, Name: "tools", UpdatedAt: "2021-01-01T00:00:00Z"}
	gt.NoError(t, catalog.Put(ctx, record))

	err := catalog.Put(ctx, record)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, repository.ErrAlreadyExists))
}

func TestReplaceMissing(t *testing.T) {
	ctx := context.Background()
	catalog := memory.New()

	err := catalog.Replace(ctx, &model.CatalogRecord{ID: 1, Name: "tools"})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	catalog := memory.New()

	gt.NoError(t, catalog.Put(ctx, &model.CatalogRecord{
		ID: 1, Name: "tools", UpdatedAt: "2021-01-01T00:00:00Z",
	}))
	gt.NoError(t, catalog.Replace(ctx, &model.CatalogRecord{
		ID: 1, Name: "tools", Description: "renewed", UpdatedAt: "2021-06-01T00:00:00Z",
	}))

	got := gt.R1(catalog.Get(ctx, 1)).NoError(t)
	gt.V(t, got.Description).Equal("renewed")
	gt.V(t, got.UpdatedAt).Equal("2021-06-01T00:00:00Z")
}

func TestIsNewerThan(t *testing.T) {
	ctx := context.Background()
	catalog := memory.New()

	gt.NoError(t, catalog.Put(ctx, &model.CatalogRecord{
		ID: 1, Name: "tools", UpdatedAt: "2021-01-01T00:00:00Z",
	}))

	gt.True(t, gt.R1(catalog.IsNewerThan(ctx, 1, "2021-06-01T00:00:00Z")).NoError(t))

	// Equal timestamps are not newer.
	gt.False(t, gt.R1(catalog.IsNewerThan(ctx, 1, "2021-01-01T00:00:00Z")).NoError(t))

	gt.False(t, gt.R1(catalog.IsNewerThan(ctx, 1, "2020-06-01T00:00:00Z")).NoError(t))
}

func TestIsNewerThanTimezoneAware(t *testing.T) {
	ctx := context.Background()
	catalog := memory.New()

	gt.NoError(t, catalog.Put(ctx, &model.CatalogRecord{
		ID: 1, Name: "tools", UpdatedAt: "2021-01-01T09:00:00+09:00",
	}))

	// Same instant expressed in UTC: not newer despite differing strings.
	gt.False(t, gt.R1(catalog.IsNewerThan(ctx, 1, "2021-01-01T00:00:00Z")).NoError(t))
	gt.True(t, gt.R1(catalog.IsNewerThan(ctx, 1, "2021-01-01T00:00:01Z")).NoError(t))
}

func TestConcurrentPutSingleWinner(t *testing.T) {
	ctx := context.Background()
	catalog := memory.New()

	const attempts = 8
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = catalog.Put(ctx, &model.CatalogRecord{
				ID: 1, Name: "tools", UpdatedAt: "2021-01-01T00:00:00Z",
			})
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		gt.True(t, errors.Is(err, repository.ErrAlreadyExists))
		lost++
	}
	gt.V(t, won).Equal(1)
	gt.V(t, lost).Equal(attempts - 1)
}
