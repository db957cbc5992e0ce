package handler

import (
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// stringField 文字列フィールドを取得（未設定は空文字）
func stringField(s *structpb.Struct, name string) string {
	v, ok := s.GetFields()[name]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

// boolField 真偽値フィールドを取得
func boolField(s *structpb.Struct, name string) bool {
	v, ok := s.GetFields()[name]
	if !ok {
		return false
	}
	return v.GetBoolValue()
}

// int64Field 整数フィールドを取得
// 桁あふれを避けるため数量は文字列でも受け付ける
func int64Field(s *structpb.Struct, name string) (int64, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		f := k.NumberValue
		if f != float64(int64(f)) {
			return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer", name)
		}
		return int64(f), nil
	case *structpb.Value_StringValue:
		if k.StringValue == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(k.StringValue, 10, 64)
		if err != nil {
			return 0, status.Errorf(codes.InvalidArgument, "invalid %s format", name)
		}
		return n, nil
	case *structpb.Value_NullValue:
		return 0, nil
	default:
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a number or string", name)
	}
}

// requiredInt64Field 必須の整数フィールドを取得
func requiredInt64Field(s *structpb.Struct, name string) (int64, error) {
	if _, ok := s.GetFields()[name]; !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	return int64Field(s, name)
}

// listField 構造体リストのフィールドを取得
func listField(s *structpb.Struct, name string) ([]*structpb.Struct, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return nil, nil
	}
	list := v.GetListValue()
	if list == nil {
		return nil, status.Errorf(codes.InvalidArgument, "%s must be a list", name)
	}
	out := make([]*structpb.Struct, 0, len(list.GetValues()))
	for _, item := range list.GetValues() {
		st := item.GetStructValue()
		if st == nil {
			return nil, status.Errorf(codes.InvalidArgument, "%s must contain objects", name)
		}
		out = append(out, st)
	}
	return out, nil
}

func formatAmount(v int64) string {
	return strconv.FormatInt(v, 10)
}

// newStruct レスポンス用のStructを作成
func newStruct(m map[string]interface{}) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return s, nil
}
