package workflow

import (
	"bytes"
	"strings"

	"github.com/gitdraft/gitdraft/internal/config"
	"github.com/gitdraft/gitdraft/internal/logging"
	"github.com/gitdraft/gitdraft/internal/testutil"
)

// testHarness bundles the fakes and the dependency container around them.
type testHarness struct {
	git    *testutil.FakeGit
	model  *testutil.FakeModel
	prompt *testutil.FakePrompt
	out    *bytes.Buffer
	deps   *Deps
}

func newHarness() *testHarness {
	g := testutil.NewFakeGit()
	m := &testutil.FakeModel{Available: true}
	p := &testutil.FakePrompt{}
	out := &bytes.Buffer{}

	cfg := &config.Config{}
	cfg.Generation.MaxAutoRetries = 3
	cfg.Generation.RecentCommits = 10
	cfg.Generation.MaxDiffBytes = 65536
	cfg.Validation.Rules = config.DefaultRules()

	return &testHarness{
		git:    g,
		model:  m,
		prompt: p,
		out:    out,
		deps: &Deps{
			Git:      g,
			Model:    m,
			Prompt:   p,
			Log:      logging.NopLogger(),
			Config:   cfg,
			Out:      out,
			In:       strings.NewReader(""),
			CheckGit: func() error { return nil },
		},
	}
}

// invalidSubject is longer than the 72 character subject limit, so the
// default rules flag it as a critical failure.
var invalidSubject = "This subject line keeps going and going far beyond the point where any reviewer stops reading"
