package syncer

// DefaultFiles is the ordered list of files kept in sync.
var DefaultFiles = []string{
	"Config.gs",
	"Utils.gs",
	"Main.gs",
	"CurrencyManager.gs",
	"VATCalculator.gs",
	"PaymentManager.gs",
	"DebtCalculator.gs",
	"Notifications.gs",
	"Triggers.gs",
	"VersionManager.gs",
	"UpdateManager.gs",
	"MigrationScripts.gs",
	"CSVImporter.gs",
	"OptimizedSetup.gs",
}
