package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/fanplan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-28.50
<FITID>2024011501
<NAME>WEVERSE SHOP BTS ALBUM
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-180.00
<FITID>2024012001
<NAME>TICKETMASTER
<MEMO>Red Velvet World Tour
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240122120000[0:GMT]
<TRNAMT>-6.00
<FITID>2024012201
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>28.50
<FITID>2024012501
<NAME>REFUND BTS ALBUM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestParser_ParseFile(t *testing.T) {
	p := NewParser([]string{"BTS", "Red Velvet", "IVE", "bts"})

	result, err := p.ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)

	require.Len(t, result.Purchases, 2)
	assert.Equal(t, []string{"1234567890"}, result.Accounts)
	assert.Equal(t, 1, result.Unmatched)

	album := result.Purchases[0]
	assert.Equal(t, "ofx:1234567890:2024011501", album.ID)
	assert.Equal(t, "BTS", album.EntityName)
	assert.Equal(t, model.CategoryAlbums, album.Category)
	assert.InDelta(t, 28.50, album.Amount, 1e-9)
	assert.True(t, album.PurchasedAt.Equal(time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)))

	concert := result.Purchases[1]
	assert.Equal(t, "Red Velvet", concert.EntityName)
	assert.Equal(t, model.CategoryConcerts, concert.Category)
	assert.Equal(t, "TICKETMASTER - Red Velvet World Tour", concert.Notes)
}

func TestParser_ParseFile_Invalid(t *testing.T) {
	_, err := NewParser(nil).ParseFile(context.Background(), strings.NewReader("not an ofx file"))
	assert.Error(t, err)
}

func TestParser_MatchEntity(t *testing.T) {
	p := NewParser([]string{"IVE", "Girls' Generation", "i-dle", "TWICE"})

	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"IVE FANMEET SEOUL", "IVE", true},
		{"OLIVE GARDEN", "", false},
		{"girls' generation lightstick", "Girls' Generation", true},
		{"(G)I-DLE i-dle mini album", "i-dle", true},
		{"TWICEBAKED BAKERY", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := p.matchEntity(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInferCategory(t *testing.T) {
	tests := []struct {
		text string
		want model.PurchaseCategory
	}{
		{"WEVERSE SHOP BTS ALBUM", model.CategoryAlbums},
		{"TICKETMASTER IVE", model.CategoryConcerts},
		{"IVE FANMEET", model.CategoryEvents},
		{"BUBBLE FOR JYPNATION", model.CategorySubscriptions},
		{"SPOTIFY USA", model.CategoryDigital},
		{"OFFICIAL LIGHTSTICK", model.CategoryMerch},
		{"SOMETHING ELSE", model.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, InferCategory(tt.text))
		})
	}
}

func TestPreprocessOFX(t *testing.T) {
	p := NewParser(nil)
	got := p.preprocessOFX("\n\n<SEVERITY>Info</SEVERITY>\n<CODE")
	assert.Equal(t, "<SEVERITY>INFO</SEVERITY>\n<CODE>", got)
}
