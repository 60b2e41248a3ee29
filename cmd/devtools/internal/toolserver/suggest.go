package toolserver

import (
	"strings"
)

type fixRule struct {
	keywords   []string
	suggestion string
}

// First matching rule wins.
var fixRules = []fixRule{
	{
		keywords: []string{"printful", "fulfillment", "not configured"},
		suggestion: `Print Shop Error Fix:
1. Check .env.local has PRINTFUL_API_KEY
2. Set PRINTFUL_API_URL only when pointing at a sandbox
3. Restart the website after changing env vars`,
	},
	{
		keywords: []string{"sqlite", "postgres", "database", "dsn", "sql:"},
		suggestion: `Database Error Fix:
1. Check DB_DRIVER is "sqlite" or "postgres"
2. Check DSN points at a writable location (the data directory must exist for sqlite)
3. Migrations run at startup. Look for a failed commit-*.sql script in the log`,
	},
	{
		keywords: []string{"s3", "bucket", "aws", "nosuchkey", "credentials"},
		suggestion: `Storage Error Fix:
1. Check AWS_ENDPOINT_URL, AWS_REGION and AWS_BUCKET
2. Check AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are set
3. For local development start LocalStack on port 4566`,
	},
	{
		keywords: []string{"email", "resend"},
		suggestion: `Email Error Fix:
1. Check .env.local has EMAIL_API_KEY and EMAIL_FROM_ADDRESS
2. The sender domain must be verified with the email provider`,
	},
	{
		keywords: []string{"cannot find package", "no required module", "missing go.sum", "import", "module"},
		suggestion: `Import Error Fix:
1. Check the import path is correct
2. Ensure the package exists at the specified path
3. Run go mod tidy if a module is missing`,
	},
	{
		keywords: []string{"nil pointer", "nil map", "invalid memory address"},
		suggestion: `Nil Error Fix:
1. Check the value is set before it is used
2. Initialize maps with make or a literal before writing to them
3. Check constructors receive every collaborator they need`,
	},
	{
		keywords: []string{"template", "can't evaluate field", "no such template"},
		suggestion: `Template Error Fix:
1. Check the page defines "title" and "content"
2. Check the field exists on the view model passed to Render
3. Templates are embedded. Rebuild after editing them`,
	},
}

/*
SuggestFix returns advice for an error message, matched on keywords.
*/
func SuggestFix(errorText string) string {
	errorText = strings.ToLower(errorText)

	for _, rule := range fixRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(errorText, keyword) {
				return rule.suggestion
			}
		}
	}

	return "No specific fix available for this error."
}
