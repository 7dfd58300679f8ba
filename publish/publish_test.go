package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/artifactgen/config"
)

func TestExecutorRun(t *testing.T) {
	e := NewExecutor(nil, 0)
	dir := t.TempDir()

	result, err := e.Run(context.Background(), dir, "echo hello && pwd")
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.True(t, strings.HasPrefix(result.Output, "hello\n"))

	result, err = e.Run(context.Background(), dir, "echo broken >&2; exit 3")
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 3, result.ExitCode)
	assert.Contains(t, cmdErr.Error(), "broken")
}

func TestExecutorTimeout(t *testing.T) {
	e := NewExecutor(nil, 50*time.Millisecond)
	result, err := e.Run(context.Background(), t.TempDir(), "exec sleep 5")
	require.Error(t, err)
	assert.NotEqual(t, 0, result.ExitCode)
}

func testConfiguration(t *testing.T, out string) *config.Configuration {
	t.Helper()
	cfg := &config.Configuration{
		Source: "test.yml",
		ArtifactToGenerate: []config.Artifact{
			{
				ProgrammingLanguage:   "Java",
				ArtifactDirectoryName: "Java",
				Packaging: []config.Packaging{{
					PackagingTool: "maven",
					Publish: []config.PublishCommand{
						{Key: "local", Command: "echo java > published.txt"},
					},
				}},
			},
			{
				ProgrammingLanguage:   "JavaScript",
				ArtifactDirectoryName: "JavaScript",
				Packaging: []config.Packaging{{
					PackagingTool: "npm",
					Publish: []config.PublishCommand{
						{Key: "local", Command: "echo js > published.txt"},
						{Key: "remote", Command: "exit 1"},
					},
				}},
			},
		},
		VocabList: []config.Vocab{{InputResources: []string{"https://example.com/vocab.ttl"}}},
	}
	for _, a := range cfg.ArtifactToGenerate {
		require.NoError(t, os.MkdirAll(cfg.ArtifactDirectory(out, a), 0755))
	}
	return cfg
}

func TestRunnerPublish(t *testing.T) {
	out := t.TempDir()
	cfg := testConfiguration(t, out)
	r := NewRunner(NewExecutor(nil, 0), cfg, out)

	require.NoError(t, r.Publish(context.Background(), []string{"local"}))
	for _, a := range cfg.ArtifactToGenerate {
		data, err := os.ReadFile(filepath.Join(cfg.ArtifactDirectory(out, a), "published.txt"))
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}

	assert.Error(t, r.Publish(context.Background(), []string{"remote"}))
	assert.ErrorContains(t, r.Publish(context.Background(), []string{"missing"}), "no publish command with key [missing]")
}

func TestWidocoCommand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "https://example.com/vocab.ttl", want: "-ontURI https://example.com/vocab.ttl"},
		{input: "vocabs/local.ttl", want: "-ontFile vocabs/local.ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := WidocoCommand(tt.input, "out/Generated/Widoco")
			assert.Contains(t, cmd, tt.want)
			assert.Contains(t, cmd, "-jar $WIDOCO_JAR")
			assert.Contains(t, cmd, "-outFolder out/Generated/Widoco -rewriteAll")
		})
	}
}
