package kernel_test

import (
	"encoding/json"
	"testing"

	"multistop/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleUUID = "550e8400-e29b-41d4-a716-446655440000"

func TestNewUUID(t *testing.T) {
	id1 := kernel.NewUUID()
	id2 := kernel.NewUUID()

	require.NoError(t, id1.Validate())
	assert.False(t, id1.IsEqual(id2))
	assert.False(t, id1.IsZero())
}

func TestUUIDFromString(t *testing.T) {
	t.Run("accepts standard, braced and urn forms", func(t *testing.T) {
		for _, in := range []string{sampleUUID, "{" + sampleUUID + "}", "urn:uuid:" + sampleUUID} {
			id, err := kernel.UUIDFromString(in)
			require.NoError(t, err, in)
			assert.Equal(t, sampleUUID, id.String())
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, in := range []string{"", "not-a-uuid", "550e8400-e29b-41d4-a716"} {
			_, err := kernel.UUIDFromString(in)
			require.Error(t, err, in)
			assert.Contains(t, err.Error(), "invalid UUID format")
		}
	})

	t.Run("nil uuid parses but does not validate", func(t *testing.T) {
		id, err := kernel.UUIDFromString("00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)
		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, id.Validate())
	})
}

func TestUUIDFromBytes(t *testing.T) {
	_, err := kernel.UUIDFromBytes(make([]byte, 16))
	assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)

	_, err = kernel.UUIDFromBytes([]byte{0x01})
	require.Error(t, err)
}

func TestUUID_Nullable(t *testing.T) {
	assert.Nil(t, kernel.FromGoogleUUIDPtr(nil))
	assert.Nil(t, kernel.BytesPtr(nil))

	raw := uuid.New()
	id := kernel.FromGoogleUUIDPtr(&raw)
	require.NotNil(t, id)
	assert.Equal(t, raw, *kernel.BytesPtr(id))

	other := kernel.NewUUID()
	assert.True(t, kernel.EqualPtr(nil, nil))
	assert.False(t, kernel.EqualPtr(id, nil))
	assert.False(t, kernel.EqualPtr(id, &other))
	same := kernel.FromGoogleUUID(raw)
	assert.True(t, kernel.EqualPtr(id, &same))
}

func TestUUID_JSON(t *testing.T) {
	type payload struct {
		ID kernel.UUID `json:"id"`
	}
	id, _ := kernel.UUIDFromString(sampleUUID)

	data, err := json.Marshal(payload{ID: id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+sampleUUID+`"}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.ID.IsEqual(id))
}
