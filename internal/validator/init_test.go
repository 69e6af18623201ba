package validator

import (
	"ctchen222/tictactoe/pkg/proto"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientMessageValidation(t *testing.T) {
	cell := 4
	tests := []struct {
		name    string
		msg     proto.ClientToServerMessage
		wantErr string
	}{
		{name: "Move with cell", msg: proto.ClientToServerMessage{Type: proto.TypeMove, Cell: &cell}},
		{name: "Move without cell", msg: proto.ClientToServerMessage{Type: proto.TypeMove}, wantErr: "field 'cell' failed on 'required_if'"},
		{name: "Mode with mode", msg: proto.ClientToServerMessage{Type: proto.TypeMode, Mode: "single_player"}},
		{name: "Mode without mode", msg: proto.ClientToServerMessage{Type: proto.TypeMode}, wantErr: "field 'mode' failed on 'required_if'"},
		{name: "Reset", msg: proto.ClientToServerMessage{Type: proto.TypeReset}},
		{name: "Computer move", msg: proto.ClientToServerMessage{Type: proto.TypeComputerMove}},
		{name: "Unknown type", msg: proto.ClientToServerMessage{Type: "rematch"}, wantErr: "field 'type' failed on 'oneof'"},
		{name: "Missing type", msg: proto.ClientToServerMessage{}, wantErr: "field 'type' failed on 'required'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := GetValidator().Struct(tt.msg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, tt.wantErr, Describe(err))
		})
	}
}

func TestDescribe_PlainError(t *testing.T) {
	assert.Equal(t, "boom", Describe(errors.New("boom")))
}
