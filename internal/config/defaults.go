package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8090
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/kizuna/data/batches.db"
	}
	ApplyDetectDefaults(&cfg.Detect)
	if cfg.Semantic.TimeoutSeconds == 0 {
		cfg.Semantic.TimeoutSeconds = 5
	}
}

// ApplyDetectDefaults sets default values on a DetectConfig. Exposed
// separately so tests and library callers can build a config without a file.
func ApplyDetectDefaults(d *DetectConfig) {
	if d.EvidenceFloor == 0 {
		d.EvidenceFloor = 0.05
	}
	if d.AcceptThreshold == 0 {
		d.AcceptThreshold = 0.6
	}
	if d.TemporalWindowDays == 0 {
		d.TemporalWindowDays = 30
	}
	if d.Workers == 0 {
		d.Workers = 8
	}
	if d.PrefixPairs == nil {
		d.PrefixPairs = []PrefixPair{
			{A: "inv", B: "po", Type: "invoice_for_po"},
			{A: "invoice", B: "po", Type: "invoice_for_po"},
			{A: "invoice", B: "purchaseorder", Type: "invoice_for_po"},
			{A: "agr", B: "contract", Type: "related"},
			{A: "agreement", B: "contract", Type: "related"},
		}
	}
	if d.ReferenceFields == nil {
		d.ReferenceFields = []string{
			"invoice_number", "po_number", "agreement_id", "contract_number", "order_number",
		}
	}
	if d.DateFields == nil {
		d.DateFields = []string{"date", "invoice_date", "issue_date", "po_date", "agreement_date"}
	}
	if d.NameFields == nil {
		d.NameFields = []string{"vendor_name", "customer_name", "supplier_name", "party_name"}
	}
	if d.StrongFields == nil {
		d.StrongFields = []string{"tax_id", "vat_number", "registration_number", "iban"}
	}
	if d.AmountFields == nil {
		d.AmountFields = []string{"total_amount", "amount", "grand_total"}
	}
	if d.NameOverlapThreshold == 0 {
		d.NameOverlapThreshold = 0.8
	}
}

// DefaultDetectConfig returns a DetectConfig with all defaults applied.
func DefaultDetectConfig() *DetectConfig {
	var d DetectConfig
	ApplyDetectDefaults(&d)
	return &d
}
