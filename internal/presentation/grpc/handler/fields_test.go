package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestInt64Field(t *testing.T) {
	s, err := structpb.NewStruct(map[string]interface{}{
		"number":   42,
		"string":   "9007199254740993",
		"fraction": 1.5,
		"bad":      "abc",
		"flag":     true,
		"empty":    "",
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		field    string
		want     int64
		wantCode codes.Code
	}{
		{name: "正常系: 数値", field: "number", want: 42},
		{name: "正常系: 文字列（倍精度を超える値）", field: "string", want: 9007199254740993},
		{name: "正常系: 未設定", field: "missing", want: 0},
		{name: "正常系: 空文字", field: "empty", want: 0},
		{name: "異常系: 小数", field: "fraction", wantCode: codes.InvalidArgument},
		{name: "異常系: 数値ではない文字列", field: "bad", wantCode: codes.InvalidArgument},
		{name: "異常系: 真偽値", field: "flag", wantCode: codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := int64Field(s, tt.field)
			if tt.wantCode != codes.OK {
				assert.Equal(t, tt.wantCode, status.Code(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err = requiredInt64Field(s, "missing")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestListField(t *testing.T) {
	s, err := structpb.NewStruct(map[string]interface{}{
		"items":  []interface{}{map[string]interface{}{"source": "gold"}},
		"scalar": "x",
		"mixed":  []interface{}{"x"},
	})
	require.NoError(t, err)

	items, err := listField(s, "items")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "gold", stringField(items[0], "source"))

	items, err = listField(s, "missing")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = listField(s, "scalar")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = listField(s, "mixed")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
