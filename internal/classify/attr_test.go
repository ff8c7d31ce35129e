package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeteDiMarco/misc-tools/internal/model"
)

func TestAttributeClassifier(t *testing.T) {
	var c AttributeClassifier

	t.Run("plain shell variable", func(t *testing.T) {
		findings := c.Classify("FOO", `declare -- FOO="bar"`+"\n")
		require.Len(t, findings, 1)
		assert.Equal(t, model.SourceDeclaredAttr, findings[0].Source)
		assert.Equal(t, "FOO is declared with attributes: shell variable.", findings[0].Summary)
		assert.Equal(t, "Its value is 'bar'.", findings[0].Detail)
	})

	t.Run("read-only exported", func(t *testing.T) {
		findings := c.Classify("SECRET", `declare -rx SECRET="hunter2"`+"\n")
		require.Len(t, findings, 1)
		assert.Equal(t, "SECRET is declared with attributes: read-only, exported.", findings[0].Summary)
		assert.Equal(t, "Its value is 'hunter2'.", findings[0].Detail)
	})

	t.Run("integer", func(t *testing.T) {
		findings := c.Classify("N", `declare -i N="42"`+"\n")
		require.Len(t, findings, 1)
		assert.Equal(t, "N is declared with attributes: integer.", findings[0].Summary)
	})

	t.Run("indexed array keeps raw value", func(t *testing.T) {
		findings := c.Classify("ARR", `declare -a ARR=([0]="a" [1]="b")`+"\n")
		require.Len(t, findings, 1)
		assert.Equal(t, "ARR is declared with attributes: indexed array.", findings[0].Summary)
		assert.Equal(t, `Its value is '([0]="a" [1]="b")'.`, findings[0].Detail)
	})

	t.Run("value spanning lines", func(t *testing.T) {
		findings := c.Classify("MULTI", "declare -- MULTI=\"first\nsecond\"\n")
		require.Len(t, findings, 1)
		assert.Equal(t, "MULTI is declared with attributes: shell variable.", findings[0].Summary)
		assert.Equal(t, "Its value is 'first\nsecond'.", findings[0].Detail)
	})

	t.Run("declared but unset has no value detail", func(t *testing.T) {
		findings := c.Classify("FOO", "declare -x FOO\n")
		require.Len(t, findings, 1)
		assert.Equal(t, "FOO is declared with attributes: exported.", findings[0].Summary)
		assert.Empty(t, findings[0].Detail)
	})

	t.Run("unknown attribute code is surfaced", func(t *testing.T) {
		findings := c.Classify("X", `declare -z X="1"`+"\n")
		require.Len(t, findings, 1)
		assert.Equal(t, `X is declared with an unknown attribute code "z".`, findings[0].Summary)
	})

	t.Run("unknown code next to known codes", func(t *testing.T) {
		findings := c.Classify("X", `declare -rz X="1"`+"\n")
		require.Len(t, findings, 2)
		assert.Equal(t, `X is declared with an unknown attribute code "z".`, findings[0].Summary)
		assert.Equal(t, "X is declared with attributes: read-only.", findings[1].Summary)
	})

	t.Run("not declared", func(t *testing.T) {
		assert.Empty(t, c.Classify("FOO", ""))
		assert.Empty(t, c.Classify("FOO", "bash: declare: FOO: not found\n"))
	})
}
