package payment_request

import (
	"math"
	"strconv"
	"strings"
)

// FormatAmount 金額を小数点以下2桁に丸めて区切り文字を除いた文字列に変換
// 例: 19.90 -> "1990", 0.05 -> "005"
func FormatAmount(amount float64) string {
	rounded := math.Round(amount*100) / 100
	return strings.Replace(strconv.FormatFloat(rounded, 'f', 2, 64), ".", "", 1)
}
