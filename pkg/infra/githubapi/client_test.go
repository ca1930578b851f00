package githubapi_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/types"
	"github.com/mirrorkeep/mirrorkeep/pkg/infra/githubapi"
	"github.com/mirrorkeep/mirrorkeep/pkg/utils/testutil"
)

func TestListAccountRepos(t *testing.T) {
	account := testutil.GetEnvOrSkip(t, "MIRRORKEEP_TEST_GITHUB_ACCOUNT")
	token := types.GitHubToken(testutil.GetEnvOrSkip(t, "MIRRORKEEP_TEST_GITHUB_TOKEN"))

	client := githubapi.New(token)
	repos := gt.R1(client.ListAccountRepos(context.Background(), account)).NoError(t)

	gt.A(t, repos).Longer(0)
	for _, repo := range repos {
		gt.V(t, repo.ID).NotEqual(0)
		gt.V(t, repo.Name).NotEqual("")
		gt.S(t, repo.CloneURL).Contains("https://")
	}
}
