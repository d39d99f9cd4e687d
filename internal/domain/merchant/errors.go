package merchant

import "errors"

var (
	// ErrConfiguration 加盟店認証情報の設定不足エラー
	ErrConfiguration = errors.New("merchant credentials are not configured")
	// ErrInvalidEnvironment 無効な環境エラー
	ErrInvalidEnvironment = errors.New("invalid gateway environment")
)
