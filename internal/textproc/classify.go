package textproc

import (
	"strings"

	"github.com/docscan/docvault/internal/models"
)

// classificationRules are evaluated in order against the lower-cased text;
// the first rule with any keyword present wins. Rule order is the tie-break
// and must not change: text mentioning both "invoice" and "resume" keywords
// classifies as invoice.
var classificationRules = []struct {
	docType  models.DocumentType
	keywords []string
}{
	{models.TypeInvoice, []string{"invoice", "bill", "amount due", "total:"}},
	{models.TypeReceipt, []string{"receipt", "thank you", "purchase", "paid"}},
	{models.TypeContract, []string{"contract", "agreement", "terms and conditions", "signature"}},
	{models.TypeResume, []string{"resume", "cv", "experience", "education", "skills"}},
	{models.TypeID, []string{"license", "passport", "id card", "identification"}},
	{models.TypeReport, []string{"report", "analysis", "summary", "findings"}},
}

// Classify assigns a document type by keyword presence, or "other" when no
// rule matches.
func Classify(text string) models.DocumentType {
	lower := strings.ToLower(text)
	for _, rule := range classificationRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.docType
			}
		}
	}
	return models.TypeOther
}
