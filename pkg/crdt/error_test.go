package crdt

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestInvalidDataError 测试InvalidDataError错误类型
func TestInvalidDataError(t *testing.T) {
	tests := []struct {
		name        string
		crdtType    Type
		reason      string
		dataLength  int
		wantMessage string
	}{
		{
			name:        "empty data",
			crdtType:    TypeGCounter,
			reason:      "data为空",
			dataLength:  0,
			wantMessage: "无效的 CRDT 数据: 类型 1, 原因: data为空, 数据长度: 0",
		},
		{
			name:        "invalid length",
			crdtType:    TypePNCounter,
			reason:      "数据不足",
			dataLength:  5,
			wantMessage: "无效的 CRDT 数据: 类型 2, 原因: 数据不足, 数据长度: 5",
		},
		{
			name:        "negative data length",
			crdtType:    TypeGSet,
			reason:      "解析失败",
			dataLength:  -1,
			wantMessage: "无效的 CRDT 数据: 类型 4, 原因: 解析失败",
		},
		{
			name:        "no reason",
			crdtType:    TypeORSet,
			reason:      "",
			dataLength:  100,
			wantMessage: "无效的 CRDT 数据: 类型 6, 数据长度: 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &InvalidDataError{
				CRDTType:   tt.crdtType,
				Reason:     tt.reason,
				DataLength: tt.dataLength,
			}

			if gotMessage := err.Error(); gotMessage != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", gotMessage, tt.wantMessage)
			}
			if unwrapped := errors.Unwrap(err); unwrapped != ErrInvalidData {
				t.Errorf("Unwrap() = %v, want ErrInvalidData", unwrapped)
			}
			if !errors.Is(err, ErrInvalidData) {
				t.Error("errors.Is(err, ErrInvalidData) should be true")
			}
		})
	}
}

// TestNewInvalidDataError 测试NewInvalidDataError构造函数
func TestNewInvalidDataError(t *testing.T) {
	err := NewInvalidDataError(TypeLWW, "测试错误")

	if err.CRDTType != TypeLWW {
		t.Errorf("CRDTType = %d, want %d", err.CRDTType, TypeLWW)
	}
	if err.Reason != "测试错误" {
		t.Errorf("Reason = %q, want %q", err.Reason, "测试错误")
	}
	if err.DataLength != -1 {
		t.Errorf("DataLength = %d, want -1", err.DataLength)
	}
}

func TestInvalidDeltaError(t *testing.T) {
	err := &InvalidDeltaError{Owner: ident(9), Delta: -4}

	if !errors.Is(err, ErrInvalidDelta) {
		t.Error("errors.Is(err, ErrInvalidDelta) should be true")
	}
	if !strings.Contains(err.Error(), "-4") || !strings.Contains(err.Error(), ident(9).String()) {
		t.Errorf("错误信息应包含副本与增量: %s", err.Error())
	}

	wrapped := fmt.Errorf("计数失败: %w", err)
	var target *InvalidDeltaError
	if !errors.As(wrapped, &target) || target.Delta != -4 {
		t.Error("errors.As 应能取出 InvalidDeltaError")
	}
}

func TestFromBytesOp_ErrorShape(t *testing.T) {
	for _, data := range [][]byte{nil, {}, {0xc1}} {
		_, err := FromBytesOp[string](data)
		var dataErr *InvalidDataError
		if !errors.As(err, &dataErr) {
			t.Fatalf("输入 %v 应返回 *InvalidDataError, 得到 %T: %v", data, err, err)
		}
		if dataErr.CRDTType != TypeOp {
			t.Errorf("输入 %v 的类型应为 op, 得到 %s", data, dataErr.CRDTType)
		}
	}
}

func TestDecodeInvalidData(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		decode func([]byte) error
	}{
		{"gcounter nil", nil, func(b []byte) error { _, err := FromBytesGCounter(b); return err }},
		{"pncounter empty", []byte{}, func(b []byte) error { _, err := FromBytesPNCounter(b); return err }},
		{"lww garbage", []byte{0xc1}, func(b []byte) error { _, err := FromBytesLWW[string](b); return err }},
		{"gset garbage", []byte{0xc1}, func(b []byte) error { _, err := FromBytesGSet[string](b); return err }},
		{"2pset garbage", []byte{0xc1}, func(b []byte) error { _, err := FromBytesTwoPhaseSet[string](b); return err }},
		{"orset garbage", []byte{0xc1}, func(b []byte) error { _, err := FromBytesORSet[string](b); return err }},
		{"op empty", nil, func(b []byte) error { _, err := FromBytesOp[string](b); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decode(tt.data)
			if !errors.Is(err, ErrInvalidData) {
				t.Errorf("预期 ErrInvalidData, 得到 %v", err)
			}
		})
	}
}

// TestTypeConstants 测试Type常量
func TestTypeConstants(t *testing.T) {
	tests := []struct {
		name     string
		typeVal  Type
		expected byte
		str      string
	}{
		{"TypeGCounter", TypeGCounter, 0x01, "gcounter"},
		{"TypePNCounter", TypePNCounter, 0x02, "pncounter"},
		{"TypeLWW", TypeLWW, 0x03, "lww"},
		{"TypeGSet", TypeGSet, 0x04, "gset"},
		{"TypeTwoPhaseSet", TypeTwoPhaseSet, 0x05, "2pset"},
		{"TypeORSet", TypeORSet, 0x06, "orset"},
		{"TypeOp", TypeOp, 0x10, "op"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if byte(tt.typeVal) != tt.expected {
				t.Errorf("Type value = %v, want %v", byte(tt.typeVal), tt.expected)
			}
			if tt.typeVal.String() != tt.str {
				t.Errorf("String() = %q, want %q", tt.typeVal.String(), tt.str)
			}
		})
	}
}
