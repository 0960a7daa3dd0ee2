package repository

// Factory describes access to different domain repositories and ledgers.
type Factory interface {
	Orders() OrderRepository
	Archive() ArchiveRepository
	Stock() StockLedger
	Balances() BalanceLedger
	Catalog() ProductCatalog
}
