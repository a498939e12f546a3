package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithFieldOverwrite(t *testing.T) {
	d := New("doc-1").WithField("title", Text("Apple iPhone")).WithField("title", Text("Apple iPhone 2"))
	v, ok := d.Field("title")
	require.True(t, ok)
	text, _ := v.Text()
	assert.Equal(t, "Apple iPhone 2", text)
	assert.Len(t, d.Fields(), 1, "overwrite must not duplicate the field entry")
}

func TestFieldOrderingPreservedOnOverwrite(t *testing.T) {
	d := New("doc-1").
		WithField("a", Int(1)).
		WithField("b", Int(2)).
		WithField("a", Int(3))

	fields := d.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "a", fields[0].Name)
	assert.Equal(t, "b", fields[1].Name)
}

func TestCloneIsIndependent(t *testing.T) {
	d := New("doc-1").WithField("x", Text("y"))
	c := d.Clone()
	c.WithField("x", Text("z"))

	orig, _ := d.Field("x")
	clone, _ := c.Field("x")
	origText, _ := orig.Text()
	cloneText, _ := clone.Text()
	assert.Equal(t, "y", origText)
	assert.Equal(t, "z", cloneText)
}

func TestSizeAccounting(t *testing.T) {
	d := New("id").WithField("n", Text("abcd")).WithField("k", Int(5))
	// "id" (2) + "n"+4 (5) + "k"+8 (9) = 16
	assert.Equal(t, 16, d.Size())
}
