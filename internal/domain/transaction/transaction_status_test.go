package transaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransactionStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TransactionStatus
		wantErr bool
	}{
		{
			name:    "正常系: open",
			input:   "open",
			want:    TransactionStatusOpen,
			wantErr: false,
		},
		{
			name:    "正常系: in_progress",
			input:   "in_progress",
			want:    TransactionStatusInProgress,
			wantErr: false,
		},
		{
			name:    "正常系: paid",
			input:   "paid",
			want:    TransactionStatusPaid,
			wantErr: false,
		},
		{
			name:    "正常系: failed",
			input:   "failed",
			want:    TransactionStatusFailed,
			wantErr: false,
		},
		{
			name:    "異常系: 無効な値",
			input:   "invalid",
			want:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTransactionStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestTransactionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from TransactionStatus
		to   TransactionStatus
		want bool
	}{
		{name: "正常系: open -> in_progress", from: TransactionStatusOpen, to: TransactionStatusInProgress, want: true},
		{name: "正常系: in_progress -> paid", from: TransactionStatusInProgress, to: TransactionStatusPaid, want: true},
		{name: "正常系: in_progress -> failed", from: TransactionStatusInProgress, to: TransactionStatusFailed, want: true},
		{name: "正常系: in_progress -> open", from: TransactionStatusInProgress, to: TransactionStatusOpen, want: true},
		{name: "正常系: failed -> open", from: TransactionStatusFailed, to: TransactionStatusOpen, want: true},
		{name: "正常系: 同一ステータス", from: TransactionStatusOpen, to: TransactionStatusOpen, want: true},
		{name: "異常系: paid -> open", from: TransactionStatusPaid, to: TransactionStatusOpen, want: false},
		{name: "異常系: paid -> failed", from: TransactionStatusPaid, to: TransactionStatusFailed, want: false},
		{name: "異常系: failed -> paid", from: TransactionStatusFailed, to: TransactionStatusPaid, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTransactionStatus_String(t *testing.T) {
	assert.Equal(t, "in_progress", TransactionStatusInProgress.String())
	assert.True(t, TransactionStatusPaid.IsPaid())
	assert.True(t, TransactionStatusFailed.IsFailed())
	assert.False(t, TransactionStatus("bogus").Valid())
}
