package payment

import "siapay-server/internal/domain/gateway"

// MatchAuthorization 照会結果に条件を満たす承認が存在するかを判定
// 先頭から順に走査し、結果コード・金額・注文番号がすべて一致した最初の承認で真を返す
func MatchAuthorization(result *gateway.OrderStatusResult, orderNumber, expectedAmount string) bool {
	if result.NumberOfItems() == 0 {
		return false
	}
	for _, auth := range result.Items {
		if auth.IsApproved() && auth.AuthorizedAmount == expectedAmount && auth.OrderID == orderNumber {
			return true
		}
	}
	return false
}
