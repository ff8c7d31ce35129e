package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeteDiMarco/misc-tools/internal/model"
	"github.com/PeteDiMarco/misc-tools/internal/probe"
)

func noHelp() probe.TextProbe {
	return probe.Func(func(ctx context.Context, name string) (string, int, error) {
		return "", 1, nil
	})
}

func TestClassifyEntryShapes(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		raw     string
		source  model.Source
		summary string
		detail  string
	}{
		{
			name:    "keyword",
			token:   "if",
			raw:     "if is a shell keyword\n",
			source:  model.SourceKeyword,
			summary: "if is a shell keyword.",
		},
		{
			name:    "builtin",
			token:   "cd",
			raw:     "cd is a shell builtin\n",
			source:  model.SourceBuiltin,
			summary: "cd is a shell builtin.",
		},
		{
			name:    "executable",
			token:   "ls",
			raw:     "ls is /usr/bin/ls\n",
			source:  model.SourceExecutable,
			summary: "ls is the executable /usr/bin/ls.",
		},
		{
			name:    "alias",
			token:   "ll",
			raw:     "ll is aliased to `ls -la'\n",
			source:  model.SourceAlias,
			summary: "There is an alias for ll: ls -la",
			detail:  "ll is aliased to `ls -la'",
		},
		{
			name:    "hashed executable",
			token:   "gs",
			raw:     "gs is hashed (/usr/bin/gs)\n",
			source:  model.SourceExecutable,
			summary: "gs is hashed; run 'hash -r' to clear the shell's command hash table.",
			detail:  "gs is hashed (/usr/bin/gs)",
		},
		{
			name:    "trailing whitespace tolerated",
			token:   "ls",
			raw:     "ls is /usr/bin/ls   \n",
			source:  model.SourceExecutable,
			summary: "ls is the executable /usr/bin/ls.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &TypeClassifier{Help: noHelp()}
			findings, err := c.Classify(context.Background(), tt.token, tt.raw)
			require.NoError(t, err)
			require.Len(t, findings, 1)

			assert.Equal(t, tt.source, findings[0].Source)
			assert.Equal(t, tt.summary, findings[0].Summary)
			assert.Equal(t, tt.detail, findings[0].Detail)
			assert.True(t, findings[0].Found)
		})
	}
}

func TestClassifyMultipleEntries(t *testing.T) {
	raw := "ls is aliased to `ls --color=auto'\n" +
		"ls is /usr/bin/ls\n" +
		"ls is /bin/ls\n"

	c := &TypeClassifier{Help: noHelp()}
	findings, err := c.Classify(context.Background(), "ls", raw)
	require.NoError(t, err)
	require.Len(t, findings, 3)

	assert.Equal(t, model.SourceAlias, findings[0].Source)
	assert.Equal(t, "ls is the executable /usr/bin/ls.", findings[1].Summary)
	assert.Equal(t, "ls is the executable /bin/ls.", findings[2].Summary)
}

func TestClassifyRepeatedEntriesAreKept(t *testing.T) {
	// Deduplication belongs to the reporter; the classifier must keep every
	// entry so debug tracing can show the raw stream.
	raw := "ll is aliased to `ls -la'\nll is aliased to `ls -la'\n"

	c := &TypeClassifier{Help: noHelp()}
	findings, err := c.Classify(context.Background(), "ll", raw)
	require.NoError(t, err)
	assert.Len(t, findings, 2)
	assert.Equal(t, findings[0], findings[1])
}

func TestClassifyIsRepeatable(t *testing.T) {
	raw := "ls is aliased to `ls --color=auto'\n" +
		"ls is a function\n" +
		"ls () \n" +
		"{ \n" +
		"    command ls \"$@\"\n" +
		"}\n" +
		"ls is /usr/bin/ls\n"

	c := &TypeClassifier{Help: noHelp()}
	first, err := c.Classify(context.Background(), "ls", raw)
	require.NoError(t, err)
	second, err := c.Classify(context.Background(), "ls", raw)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestClassifySkipsFunctionBody(t *testing.T) {
	t.Run("function entry followed by body", func(t *testing.T) {
		raw := "greet is a function\n" +
			"greet () \n" +
			"{ \n" +
			"    echo hello;\n" +
			"    ls | wc -l\n" +
			"}\n"

		c := &TypeClassifier{Help: noHelp()}
		findings, err := c.Classify(context.Background(), "greet", raw)
		require.NoError(t, err)
		require.Len(t, findings, 1)
		assert.Equal(t, model.SourceFunction, findings[0].Source)
		assert.Equal(t, "greet is a function.", findings[0].Summary)
	})

	t.Run("body alone yields nothing", func(t *testing.T) {
		c := &TypeClassifier{Help: noHelp()}
		findings, err := c.Classify(context.Background(), "foo", "foo ()\n{\nbar\n}\n")
		require.NoError(t, err)
		assert.Empty(t, findings)
	})

	t.Run("entries after the body still parse", func(t *testing.T) {
		raw := "ls is a function\n" +
			"ls () \n" +
			"{ \n" +
			"    command ls --color=auto \"$@\"\n" +
			"}\n" +
			"ls is /usr/bin/ls\n"

		c := &TypeClassifier{Help: noHelp()}
		findings, err := c.Classify(context.Background(), "ls", raw)
		require.NoError(t, err)
		require.Len(t, findings, 2)
		assert.Equal(t, model.SourceFunction, findings[0].Source)
		assert.Equal(t, model.SourceExecutable, findings[1].Source)
	})

	t.Run("closing brace with trailing whitespace", func(t *testing.T) {
		raw := "f is a function\nf ()\n{\n    true\n}  \nf is /usr/local/bin/f\n"

		c := &TypeClassifier{Help: noHelp()}
		findings, err := c.Classify(context.Background(), "f", raw)
		require.NoError(t, err)
		assert.Len(t, findings, 2)
	})
}

func TestClassifyUnrecognizedLine(t *testing.T) {
	c := &TypeClassifier{Help: noHelp()}
	findings, err := c.Classify(context.Background(), "x", "completely unexpected output\n")
	assert.Nil(t, findings)

	var unrec *UnrecognizedFormatError
	require.ErrorAs(t, err, &unrec)
	assert.Equal(t, "completely unexpected output", unrec.Line)
}

func TestClassifyHelpDetail(t *testing.T) {
	t.Run("keyword and builtin carry help text", func(t *testing.T) {
		help := probe.Func(func(ctx context.Context, name string) (string, int, error) {
			return name + ": " + name + " COMMANDS\n", 0, nil
		})

		c := &TypeClassifier{Help: help}
		findings, err := c.Classify(context.Background(), "if", "if is a shell keyword\n")
		require.NoError(t, err)
		require.Len(t, findings, 1)
		assert.Equal(t, "if: if COMMANDS", findings[0].Detail)
	})

	t.Run("failed help lookup leaves detail empty", func(t *testing.T) {
		help := probe.Func(func(ctx context.Context, name string) (string, int, error) {
			return "", 1, errors.New("no help")
		})

		c := &TypeClassifier{Help: help}
		findings, err := c.Classify(context.Background(), "cd", "cd is a shell builtin\n")
		require.NoError(t, err)
		require.Len(t, findings, 1)
		assert.Empty(t, findings[0].Detail)
	})

	t.Run("nil help probe is tolerated", func(t *testing.T) {
		c := &TypeClassifier{}
		findings, err := c.Classify(context.Background(), "cd", "cd is a shell builtin\n")
		require.NoError(t, err)
		require.Len(t, findings, 1)
		assert.Empty(t, findings[0].Detail)
	})
}
