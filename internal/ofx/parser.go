// Package ofx imports fan purchases from OFX/QFX bank and credit card
// statements.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/fanplan/internal/model"
	"github.com/aclindsa/ofxgo"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// categoryKeywords is checked in order; the first category with a keyword
// in the transaction text wins.
var categoryKeywords = []struct {
	category model.PurchaseCategory
	keywords []string
}{
	{model.CategorySubscriptions, []string{"MEMBERSHIP", "SUBSCRIPTION", "FAN CLUB", "FANCLUB", "BUBBLE"}},
	{model.CategoryEvents, []string{"FANMEET", "FAN MEET", "FANSIGN", "FAN SIGN", "EVENT"}},
	{model.CategoryConcerts, []string{"TICKET", "CONCERT", "TOUR", "LIVE NATION"}},
	{model.CategoryAlbums, []string{"ALBUM", "VINYL", "RECORD", " CD", "MINI"}},
	{model.CategoryDigital, []string{"SPOTIFY", "ITUNES", "APPLE MUSIC", "MELON", "DOWNLOAD", "STREAM"}},
	{model.CategoryMerch, []string{"MERCH", "LIGHTSTICK", "HOODIE", "SHIRT", "SHOP", "STORE"}},
}

// Result is what a statement import produced.
type Result struct {
	Purchases []model.PurchaseRecord
	Accounts  []string
	// Unmatched counts debits that named no known entity.
	Unmatched int
}

type entityMatcher struct {
	pattern *regexp.Regexp
	name    string
}

// Parser turns OFX transactions that name a known entity into purchases.
type Parser struct {
	matchers []entityMatcher
}

// NewParser creates a parser that recognizes the given entity names.
// Longer names are tried first so "Girls' Generation" wins over a shorter
// name it contains.
func NewParser(entityNames []string) *Parser {
	seen := make(map[model.EntityID]bool)
	var names []string
	for _, name := range entityNames {
		name = strings.TrimSpace(name)
		id := model.IDFromName(name)
		if name == "" || seen[id] {
			continue
		}
		seen[id] = true
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	p := &Parser{}
	for _, name := range names {
		p.matchers = append(p.matchers, entityMatcher{
			name:    name,
			pattern: regexp.MustCompile(`(?i)(^|[^\pL\pN])` + regexp.QuoteMeta(name) + `($|[^\pL\pN])`),
		})
	}
	return p
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML-style files sometimes drop the closing bracket of a bare tag.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX statement and returns the fan purchases in it.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) (*Result, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	result := &Result{}
	accounts := make(map[string]bool)

	collect := func(accountID string, list *ofxgo.TransactionList) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if accountID != "" && !accounts[accountID] {
			accounts[accountID] = true
			result.Accounts = append(result.Accounts, accountID)
		}
		if list == nil {
			return nil
		}
		for _, tx := range list.Transactions {
			purchase, ok := p.convertTransaction(tx, accountID)
			switch {
			case ok:
				result.Purchases = append(result.Purchases, purchase)
			case isDebit(tx):
				result.Unmatched++
			}
		}
		return nil
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			if err := collect(string(stmt.BankAcctFrom.AcctID), stmt.BankTranList); err != nil {
				return nil, err
			}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			if err := collect(string(stmt.CCAcctFrom.AcctID), stmt.BankTranList); err != nil {
				return nil, err
			}
		}
	}

	slog.Info("Parsed OFX file",
		"purchases", len(result.Purchases),
		"unmatched_debits", result.Unmatched,
		"accounts", len(result.Accounts))

	return result, nil
}

// convertTransaction maps a debit naming a known entity to a purchase.
func (p *Parser) convertTransaction(tx ofxgo.Transaction, accountID string) (model.PurchaseRecord, bool) {
	if !isDebit(tx) {
		return model.PurchaseRecord{}, false
	}

	text := describe(tx)
	entity, ok := p.matchEntity(text)
	if !ok {
		return model.PurchaseRecord{}, false
	}

	amount, _ := tx.TrnAmt.Float64()
	if amount < 0 {
		amount = -amount
	}

	return model.PurchaseRecord{
		ID:          purchaseID(accountID, string(tx.FiTID)),
		EntityName:  entity,
		Category:    InferCategory(text),
		Amount:      amount,
		PurchasedAt: tx.DtPosted.Time.UTC(),
		Notes:       text,
	}, true
}

func (p *Parser) matchEntity(text string) (string, bool) {
	for _, m := range p.matchers {
		if m.pattern.MatchString(text) {
			return m.name, true
		}
	}
	return "", false
}

// InferCategory guesses a purchase category from statement text.
func InferCategory(text string) model.PurchaseCategory {
	upper := " " + strings.ToUpper(text)
	for _, ck := range categoryKeywords {
		for _, kw := range ck.keywords {
			if strings.Contains(upper, kw) {
				return ck.category
			}
		}
	}
	return model.CategoryOther
}

// describe joins the payee, name and memo fields into one line of text.
func describe(tx ofxgo.Transaction) string {
	var parts []string
	if tx.Payee != nil && tx.Payee.Name != "" {
		parts = append(parts, strings.TrimSpace(string(tx.Payee.Name)))
	}
	if name := strings.TrimSpace(string(tx.Name)); name != "" {
		parts = append(parts, name)
	}
	if memo := strings.TrimSpace(string(tx.Memo)); memo != "" {
		parts = append(parts, memo)
	}
	return strings.Join(parts, " - ")
}

func isDebit(tx ofxgo.Transaction) bool {
	amount, _ := tx.TrnAmt.Float64()
	return amount < 0
}

func purchaseID(accountID, fitID string) string {
	if accountID == "" {
		return "ofx:" + fitID
	}
	return "ofx:" + accountID + ":" + fitID
}
