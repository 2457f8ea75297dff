// internal/services/stats.go
package services

import "fmt"

// approvalRate preserves the historical API shape: a two-decimal percentage
// string when there is data, the number 0 when there is none.
func approvalRate(approved, total int64) interface{} {
	if total == 0 {
		return 0
	}
	return fmt.Sprintf("%.2f", float64(approved)/float64(total)*100)
}
