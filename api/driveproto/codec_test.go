package driveproto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(Name)
	require.NotNil(t, c)
	assert.Equal(t, "json", c.Name())
}

func TestCodecMessages(t *testing.T) {
	c := Codec{}
	parent := int64(7)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	data, err := c.Marshal(&Content{
		Id:        10,
		Name:      "a.txt",
		Path:      "home/a.txt",
		ParentId:  &parent,
		Type:      ContentType_FILE,
		CreatedAt: timestamppb.New(created),
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"parent_id":7`)

	var got Content
	require.NoError(t, c.Unmarshal(data, &got))
	assert.Equal(t, int64(10), got.Id)
	require.NotNil(t, got.ParentId)
	assert.Equal(t, parent, *got.ParentId)
	assert.True(t, created.Equal(got.CreatedAt.AsTime()))
}

func TestCodecBytes(t *testing.T) {
	c := Codec{}
	data, err := c.Marshal(&FileChunk{ContentId: 1, Data: []byte{0, 1, 2, 255}})
	require.NoError(t, err)

	var got FileChunk
	require.NoError(t, c.Unmarshal(data, &got))
	assert.Equal(t, []byte{0, 1, 2, 255}, got.Data)
}

func TestCodecProtoMessage(t *testing.T) {
	c := Codec{}
	data, err := c.Marshal(&emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	require.NoError(t, c.Unmarshal([]byte("{}"), &emptypb.Empty{}))
	assert.Error(t, c.Unmarshal([]byte("{"), &Ok{}))
}
