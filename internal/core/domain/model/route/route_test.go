package route_test

import (
	"testing"

	"multistop/internal/core/domain/model/route"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariant(t *testing.T) {
	v, err := route.ParseVariant("stable")
	require.NoError(t, err)
	assert.Equal(t, route.Stable, v)

	_, err = route.ParseVariant("live")
	require.Error(t, err)
}
