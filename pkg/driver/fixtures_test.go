package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type programFixture struct {
	Description string `yaml:"description"`
	Config      struct {
		MaxCallDepth int `yaml:"max_call_depth"`
	} `yaml:"config"`
	Source string `yaml:"source"`
	Expect struct {
		Stdout []string `yaml:"stdout"`
		Errors []string `yaml:"errors"`
	} `yaml:"expect"`
}

var fixtureTime = time.Unix(1700000000, 250000000)

func readFixture(t *testing.T, path string) programFixture {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var fixture programFixture
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	require.NoError(t, decoder.Decode(&fixture), "decode %s", path)
	return fixture
}

func outputLines(out string) []string {
	trimmed := strings.TrimSuffix(out, "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

func TestProgramFixtures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "programs", "*.yml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		path := path
		t.Run(strings.TrimSuffix(filepath.Base(path), ".yml"), func(t *testing.T) {
			fixture := readFixture(t, path)

			cfg := DefaultConfig()
			if fixture.Config.MaxCallDepth > 0 {
				cfg.MaxCallDepth = fixture.Config.MaxCallDepth
			}
			var stdout bytes.Buffer
			session, err := NewSession(cfg,
				WithOutput(&stdout),
				WithClock(func() time.Time { return fixtureTime }),
			)
			require.NoError(t, err)

			err = session.Run(fixture.Source)
			if len(fixture.Expect.Errors) > 0 {
				require.Error(t, err, fixture.Description)
				require.Equal(t, fixture.Expect.Errors, strings.Split(err.Error(), "\n"), fixture.Description)
			} else {
				require.NoError(t, err, fixture.Description)
			}
			require.Equal(t, fixture.Expect.Stdout, outputLines(stdout.String()), fixture.Description)
		})
	}
}
