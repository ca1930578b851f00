package infra

import (
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/interfaces"
	"github.com/mirrorkeep/mirrorkeep/pkg/infra/gitops"
)

type Clients struct {
	repoLister interfaces.RepoLister
	gitMirror  interfaces.GitMirror
	catalog    interfaces.Catalog
}

type Option func(*Clients)

func New(options ...Option) *Clients {
	client := &Clients{
		gitMirror: gitops.New(),
	}

	for _, opt := range options {
		opt(client)
	}

	return client
}

func (x *Clients) RepoLister() interfaces.RepoLister {
	return x.repoLister
}
func (x *Clients) GitMirror() interfaces.GitMirror {
	return x.gitMirror
}
func (x *Clients) Catalog() interfaces.Catalog {
	return x.catalog
}

func WithRepoLister(client interfaces.RepoLister) Option {
	return func(x *Clients) {
		x.repoLister = client
	}
}

func WithGitMirror(client interfaces.GitMirror) Option {
	return func(x *Clients) {
		x.gitMirror = client
	}
}

func WithCatalog(catalog interfaces.Catalog) Option {
	return func(x *Clients) {
		x.catalog = catalog
	}
}
