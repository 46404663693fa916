package storage

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectName(t *testing.T) {
	name := objectName(3, "../Me.PNG")
	assert.True(t, strings.HasPrefix(name, "avatars/3/"))
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.NotEqual(t, name, objectName(3, "../Me.PNG"))
}

func TestObjectURL(t *testing.T) {
	endpoint, _ := url.Parse("http://localhost:9000")
	assert.Equal(t, "http://localhost:9000/avatars-bucket/avatars/1/x.png", objectURL(endpoint, "avatars-bucket", "avatars/1/x.png"))
}
