package model_test

import (
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/model"
)

func TestEffectiveTimestampPrefersLater(t *testing.T) {
	repo := &model.RemoteRepo{
		UpdatedAt: "2021-01-01T00:00:00Z",
		PushedAt:  "2021-06-01T00:00:00Z",
	}
	gt.V(t, repo.EffectiveTimestamp()).Equal("2021-06-01T00:00:00Z")

	repo = &model.RemoteRepo{
		UpdatedAt: "2021-06-01T00:00:00Z",
		PushedAt:  "2021-01-01T00:00:00Z",
	}
	gt.V(t, repo.EffectiveTimestamp()).Equal("2021-06-01T00:00:00Z")
}

func TestEffectiveTimestampEqualSides(t *testing.T) {
	repo := &model.RemoteRepo{
		UpdatedAt: "2021-01-01T00:00:00Z",
		PushedAt:  "2021-01-01T00:00:00Z",
	}
	gt.V(t, repo.EffectiveTimestamp()).Equal("2021-01-01T00:00:00Z")
}

func TestEffectiveTimestampUnparsableFallback(t *testing.T) {
	repo := &model.RemoteRepo{
		UpdatedAt: "2021-01-01T00:00:00Z",
		PushedAt:  "not-a-time",
	}
	gt.V(t, repo.EffectiveTimestamp()).Equal("2021-01-01T00:00:00Z")

	repo = &model.RemoteRepo{
		UpdatedAt: "not-a-time",
		PushedAt:  "2021-06-01T00:00:00Z",
	}
	gt.V(t, repo.EffectiveTimestamp()).Equal("2021-06-01T00:00:00Z")

	// Both unparsable: the update time string passes through unchanged.
	repo = &model.RemoteRepo{
		UpdatedAt: "garbage-updated",
		PushedAt:  "garbage-pushed",
	}
	gt.V(t, repo.EffectiveTimestamp()).Equal("garbage-updated")
}

func TestMirrorPath(t *testing.T) {
	repo := &model.RemoteRepo{Name: "tools"}
	gt.V(t, repo.MirrorPath("/srv/git")).Equal(filepath.Join("/srv/git", "tools.git"))

	fork := &model.RemoteRepo{Name: "tools", Fork: true}
	gt.V(t, fork.MirrorPath("/srv/git")).Equal(filepath.Join("/srv/git", "fork", "tools.git"))
}

func TestNewCatalogRecord(t *testing.T) {
	repo := &model.RemoteRepo{
		ID:            42,
		Name:          "tools",
		Description:   "misc scripts",
		DefaultBranch: "main",
		UpdatedAt:     "2021-01-01T00:00:00Z",
		PushedAt:      "2021-06-01T00:00:00Z",
	}

	record := model.NewCatalogRecord(repo)
	gt.V(t, record.ID).Equal(42)
	gt.V(t, record.Name).Equal("tools")
	gt.V(t, record.Description).Equal("misc scripts")
	gt.V(t, record.DefaultBranch).Equal("main")
	gt.V(t, record.UpdatedAt).Equal("2021-06-01T00:00:00Z")
}
