package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeQueryOrderInsensitive(t *testing.T) {
	assert.Equal(t, normalizeQuery("+cat -bird dog"), normalizeQuery("dog +cat -bird"))
	assert.Equal(t, normalizeQuery("+a +b"), normalizeQuery("+b +a"))
}

func TestNormalizeQueryClassSensitive(t *testing.T) {
	assert.NotEqual(t, normalizeQuery("+cat"), normalizeQuery("-cat"))
	assert.NotEqual(t, normalizeQuery("+cat"), normalizeQuery("cat"))
}

func TestNormalizeQueryCaseInsensitive(t *testing.T) {
	assert.Equal(t, normalizeQuery("+CAT dog"), normalizeQuery("+cat DOG"))
}

func TestBuildKeyDistinguishesModes(t *testing.T) {
	c := &QueryCache{}
	assert.NotEqual(t, c.buildKey("boolean", "cat"), c.buildKey("tfidf", "cat"))
	assert.Equal(t, c.buildKey("boolean", "cat dog"), c.buildKey("boolean", "dog cat"))
}
