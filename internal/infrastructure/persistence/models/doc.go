// Package models contains the GORM persistence models. They are kept apart
// from the domain types so the domain stays free of ORM tags.
//
//   - commission.go: commission_rules, commission_earned
//   - wallet.go: wallet_accounts, wallet_transactions
//   - sales.go: read-only views of users, products, sales and sale_items
package models
