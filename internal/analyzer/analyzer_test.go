package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/tgch/internal/document"
)

func TestTokensOfBasic(t *testing.T) {
	assert.Equal(t, []string{"apple", "iphone"}, TokensOf("Apple iPhone"))
}

func TestTokensOfStripsPunctuation(t *testing.T) {
	assert.Equal(t, []string{"hello", "world"}, TokensOf("  ...Hello, World!!  "))
}

func TestTokensOfEmpty(t *testing.T) {
	assert.Nil(t, TokensOf(""))
	assert.Nil(t, TokensOf("   ---   "))
}

func TestTokensOfDuplicatesRetained(t *testing.T) {
	assert.Equal(t, []string{"go", "go", "go"}, TokensOf("go go go"))
}

func TestTrigramsOfLength(t *testing.T) {
	// a token of length L yields L+1 trigrams
	trigrams := TrigramsOf("cat")
	assert.Len(t, trigrams, 4)
}

func TestTrigramsOfContent(t *testing.T) {
	trigrams := TrigramsOf("cat")
	s := string(sentinel)
	assert.Equal(t, s+s+"c", trigrams[0])
	assert.Equal(t, s+"ca", trigrams[1])
	assert.Equal(t, "cat", trigrams[2])
	assert.Equal(t, "at"+s, trigrams[3])
}

func TestTrigramsOfEmptyToken(t *testing.T) {
	assert.Nil(t, TrigramsOf(""))
}

func TestTokensOfDocumentIgnoresNonText(t *testing.T) {
	d := document.New("doc-1").
		WithField("title", document.Text("Apple iPhone")).
		WithField("price", document.Int(999)).
		WithField("inStock", document.Bool(true))

	tokens := TokensOfDocument(d)
	assert.Equal(t, []string{"apple", "iphone"}, tokens)
}
