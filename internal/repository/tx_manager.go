package repository

import "context"

// TxRepos is the repository set visible inside one transaction. Every
// multi-document order mutation (checkout, status update, assignment,
// delivery completion) goes through it so the order row, its history entry,
// the partner stats and the audit log commit or roll back together.
type TxRepos interface {
	Orders() OrderRepository
	History() StatusHistoryRepository
	Partners() DeliveryPartnerRepository
	Coupons() CouponRepository
	Products() ProductRepository
	AuditLogs() AuditLogRepository
}

// TransactionManager hides tx begin/commit/rollback from usecases.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
