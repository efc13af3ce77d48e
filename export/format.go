package export

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fsecamp/reimburse/record"
)

// FormatDecimalComma renders an amount with two decimals and a decimal comma,
// without thousands separators: 1234.5 becomes "1234,50".
func FormatDecimalComma(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

// FormatItalian renders an amount for display: 1234.5 becomes "1.234,50".
func FormatItalian(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var sb strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(r)
	}
	return sign + sb.String() + "," + frac
}

// values renders a record in Columns order with text amounts.
func values(rec record.Record) []string {
	return []string{
		rec.Reference,
		rec.CUP,
		rec.District,
		rec.LeadMunicipality,
		rec.MandateNumber,
		rec.MandateDate.String(),
		rec.MandateHolder,
		FormatDecimalComma(rec.MandateAmount),
		rec.CampMunicipality,
		rec.Camp,
		rec.ParentName,
		rec.ChildName,
		rec.Identifier,
		FormatDecimalComma(rec.Contribution),
		FormatDecimalComma(rec.OtherContributions),
		FormatDecimalComma(rec.BeneficiaryShare),
		FormatDecimalComma(rec.TotalFee),
		strconv.Itoa(rec.Weeks.Count),
		FormatDecimalComma(rec.FormalControls),
	}
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[\\/*?:"<>|]`)
	whitespaceRun       = regexp.MustCompile(`\s+`)
)

// SanitizeComponent makes s safe to embed in a file name: path and shell
// metacharacters become '-', whitespace runs become a single '-'.
func SanitizeComponent(s string) string {
	s = unsafeFilenameChars.ReplaceAllString(s, "-")
	s = strings.TrimSpace(s)
	return whitespaceRun.ReplaceAllString(s, "-")
}

// Filename joins prefix, the sanitized reference and a timestamp with '_'.
// The reference is omitted when empty. The extension is not included.
//
//	Filename("datiSIFER", "2024-12/RER", true, now) // datiSIFER_2024-12-RER_20240415_093000
func Filename(prefix, reference string, withSeconds bool, now time.Time) string {
	layout := "20060102_1504"
	if withSeconds {
		layout = "20060102_150405"
	}
	parts := []string{prefix}
	if ref := SanitizeComponent(reference); ref != "" {
		parts = append(parts, ref)
	}
	parts = append(parts, now.Format(layout))
	return strings.Join(parts, "_")
}
