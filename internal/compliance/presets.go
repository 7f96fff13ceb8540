package compliance

// MaskingStrategy controls how PII columns are exposed to entitled users.
type MaskingStrategy string

const (
	// MaskFull grants entitled users direct access to every PII column.
	MaskFull MaskingStrategy = "full"
	// MaskPartial grants access to the first half (rounded up) of the
	// preset's PII field list, by list order.
	MaskPartial MaskingStrategy = "partial"
	// MaskHash grants no direct column access; values are hashed or
	// redacted at the value layer instead.
	MaskHash MaskingStrategy = "hash"
)

// PIIMasking configures how a preset treats PII columns.
type PIIMasking struct {
	Enabled  bool            `json:"enabled"`
	Fields   []string        `json:"fields"`
	Strategy MaskingStrategy `json:"masking_strategy"`
}

// AuditRequirements lists the audit events a preset mandates.
type AuditRequirements struct {
	LogAllAccess      bool `json:"log_all_access"`
	LogDataChanges    bool `json:"log_data_changes"`
	LogFailedAttempts bool `json:"log_failed_attempts"`
}

// ExportRestrictions bounds bulk data export under a preset. MaxRecords is a
// hard limit: requests above it are rejected, never truncated.
type ExportRestrictions struct {
	Enabled          bool  `json:"enabled"`
	ApprovalRequired bool  `json:"approval_required"`
	MaxRecords       int64 `json:"max_records"`
}

// Preset is a named bundle of retention, masking, audit, and export policy.
// Presets are static configuration and are never mutated at runtime.
type Preset struct {
	Name               string             `json:"name"`
	DataRetentionDays  int                `json:"data_retention_days"`
	PIIMasking         PIIMasking         `json:"pii_masking"`
	AuditRequirements  AuditRequirements  `json:"audit_requirements"`
	ExportRestrictions ExportRestrictions `json:"export_restrictions"`
}

// Framework names for the built-in presets.
const (
	FrameworkHIPAA = "hipaa"
	FrameworkGDPR  = "gdpr"
	FrameworkSOC2  = "soc2"
)

var presets = map[string]Preset{
	FrameworkHIPAA: {
		Name:              FrameworkHIPAA,
		DataRetentionDays: 2555,
		PIIMasking: PIIMasking{
			Enabled:  true,
			Strategy: MaskFull,
			Fields: []string{
				"ssn", "email", "phone", "date_of_birth", "address",
				"medical_record_number", "health_id", "full_name",
			},
		},
		AuditRequirements: AuditRequirements{
			LogAllAccess:      true,
			LogDataChanges:    true,
			LogFailedAttempts: true,
		},
		ExportRestrictions: ExportRestrictions{
			Enabled:          true,
			ApprovalRequired: true,
			MaxRecords:       1000,
		},
	},
	FrameworkGDPR: {
		Name:              FrameworkGDPR,
		DataRetentionDays: 1095,
		PIIMasking: PIIMasking{
			Enabled:  true,
			Strategy: MaskPartial,
			Fields: []string{
				"email", "phone", "address", "full_name", "date_of_birth", "passport",
			},
		},
		AuditRequirements: AuditRequirements{
			LogAllAccess:      false,
			LogDataChanges:    true,
			LogFailedAttempts: true,
		},
		ExportRestrictions: ExportRestrictions{
			Enabled:          true,
			ApprovalRequired: false,
			MaxRecords:       10000,
		},
	},
	FrameworkSOC2: {
		Name:              FrameworkSOC2,
		DataRetentionDays: 365,
		PIIMasking: PIIMasking{
			Enabled:  true,
			Strategy: MaskHash,
			Fields: []string{
				"email", "phone", "ssn", "full_name",
			},
		},
		AuditRequirements: AuditRequirements{
			LogAllAccess:      false,
			LogDataChanges:    true,
			LogFailedAttempts: false,
		},
		ExportRestrictions: ExportRestrictions{
			Enabled:          true,
			ApprovalRequired: false,
			MaxRecords:       50000,
		},
	},
}
