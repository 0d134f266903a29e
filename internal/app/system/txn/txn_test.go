package txn

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some random error"), false},
		{"standalone server code 20", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"}, true},
		{"illegal operation code 51", mongo.CommandError{Code: 51, Message: "Illegal operation"}, true},
		{"not supported in txn code 263", mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"}, true},
		{"unrelated command error", mongo.CommandError{Code: 100, Message: "Some other error"}, false},
		{"replica set message", errors.New("transaction failed because this is not a replica set member"), true},
		{"sessions unsupported message", errors.New("session operations are not supported on this server"), true},
		{"transaction keyword alone", errors.New("transaction failed"), false},
		{"session state message", errors.New("cannot start transaction in current session state"), true},
		{"illegal operation message", errors.New("illegal operation during transaction"), true},
		{"uppercase message", errors.New("TRANSACTION FAILED on REPLICA SET"), true},
		{"mixed case message", errors.New("Transaction Session error"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
