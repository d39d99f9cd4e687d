package service

import (
	"math/rand/v2"
)

const operatorIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// 注文ステータス照会で使うオペレーターIDの長さ
const (
	OperatorIDMinLength = 8
	OperatorIDMaxLength = 16
)

// OperatorIDGenerator リクエスト相関用のランダムな英数字トークンを生成
// セキュリティ用途ではないため非暗号学的な乱数を使う
type OperatorIDGenerator struct {
	intN func(n int) int
}

// NewOperatorIDGenerator 新しいOperatorIDGeneratorを作成
func NewOperatorIDGenerator() *OperatorIDGenerator {
	return &OperatorIDGenerator{
		intN: rand.IntN,
	}
}

// NewOperatorIDGeneratorWithSource 乱数源を指定してOperatorIDGeneratorを作成（テスト用）
// 指定した*rand.Randはゴルーチン間で共有しないこと
func NewOperatorIDGeneratorWithSource(r *rand.Rand) *OperatorIDGenerator {
	return &OperatorIDGenerator{
		intN: r.IntN,
	}
}

// Generate 長さを[minLen, maxLen]から一様に選び、各文字を62文字から一様に選ぶ
func (g *OperatorIDGenerator) Generate(minLen, maxLen int) string {
	if minLen < 0 {
		minLen = 0
	}
	if maxLen < minLen {
		maxLen = minLen
	}

	length := minLen + g.intN(maxLen-minLen+1)
	b := make([]byte, length)
	for i := range b {
		b[i] = operatorIDAlphabet[g.intN(len(operatorIDAlphabet))]
	}
	return string(b)
}

// GenerateDefault 照会用の長さ範囲でオペレーターIDを生成
func (g *OperatorIDGenerator) GenerateDefault() string {
	return g.Generate(OperatorIDMinLength, OperatorIDMaxLength)
}
