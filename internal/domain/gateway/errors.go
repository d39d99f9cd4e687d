package gateway

import "errors"

var (
	// ErrGatewayCommunication ゲートウェイとの通信エラー（タイムアウトを含む）
	ErrGatewayCommunication = errors.New("gateway communication failed")
)
