package export

import (
	"retreehawaii/mailexport/pkg/config"
	"retreehawaii/mailexport/pkg/source"
)

// Job names.
const (
	JobTemplates = "templates"
	JobMailLog   = "maillog"
)

// TemplatesQuery reads every template in id order.
const TemplatesQuery = "SELECT * FROM templates ORDER BY id"

// Job describes one table export: the statement to run, the fields to
// render as ISO-8601 and the file to write.
type Job struct {
	// Name identifies the job in errors, logs and metric labels.
	Name string

	// Label is the noun used in the success line, e.g. "maillog entries".
	Label string

	// Query is the SQL statement. Args are bound to its placeholders.
	Query string
	Args  []any

	// TemporalFields are rewritten to ISO-8601 text when non-null.
	TemporalFields []string

	// File is the output file name, relative to the output directory.
	File string

	// Max caps the number of rows read. Zero means no cap.
	Max int
}

// TemplatesJob returns the export of the templates table.
func TemplatesJob(cfg *config.Config) Job {
	return Job{
		Name:           JobTemplates,
		Label:          "templates",
		Query:          TemplatesQuery,
		TemporalFields: []string{"created"},
		File:           cfg.Export.TemplatesFile,
	}
}

// MailLogJob returns the export of the newest limit rows of the maillog
// table. A limit of zero or less selects the configured default.
func MailLogJob(cfg *config.Config, limit int) Job {
	if limit <= 0 {
		limit = cfg.Export.MailLogLimit
	}
	if limit <= 0 {
		limit = config.DefaultMailLogLimit
	}

	return Job{
		Name:           JobMailLog,
		Label:          "maillog entries",
		Query:          MailLogQuery(cfg.Source.Driver),
		Args:           []any{limit},
		TemporalFields: []string{"sent", "opened"},
		File:           cfg.Export.MailLogFile,
		Max:            limit,
	}
}

// MailLogQuery returns the maillog statement with the limit placeholder
// for driver.
func MailLogQuery(driver string) string {
	return "SELECT * FROM maillog ORDER BY sent DESC LIMIT " + source.Placeholder(driver, 1)
}
