package csvcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuotedFields(t *testing.T) {
	raw := "name,notes\n" +
		"\"Shirt, blue\",\"says \"\"hi\"\"\"\n" +
		"Plain,none\n"

	header, records, errs := Parse(raw)
	assert.Empty(t, errs)
	assert.Equal(t, Row{"name", "notes"}, header)
	if assert.Len(t, records, 2) {
		assert.Equal(t, Row{"Shirt, blue", `says "hi"`}, records[0].Fields)
		assert.Equal(t, Row{"Plain", "none"}, records[1].Fields)
	}
}

func TestParseReportsMalformedRows(t *testing.T) {
	raw := "name\nok\n\"unterminated\n"

	_, records, errs := Parse(raw)
	assert.Len(t, records, 1)
	if assert.Len(t, errs, 1) {
		assert.Equal(t, 3, errs[0].Line)
	}
}

func TestParseRecordsCarrySourceLines(t *testing.T) {
	raw := "name,phone\n" +
		"Ana,111\n" +
		"\n" +
		"bare \"quote,222\n" +
		"Budi,333\n"

	_, records, errs := Parse(raw)
	if assert.Len(t, records, 2) {
		assert.Equal(t, 2, records[0].Line)
		// Skipped blank and malformed lines must not shift later rows'
		// reported positions.
		assert.Equal(t, 5, records[1].Line)
		assert.Equal(t, Row{"Budi", "333"}, records[1].Fields)
	}
	if assert.Len(t, errs, 1) {
		assert.Equal(t, 4, errs[0].Line)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	header := Row{"name", "phone"}
	rows := []Row{
		{"Asha, Jain", "9876"},
		{`He said "no"`, ""},
	}

	out := Write(header, rows)
	gotHeader, records, errs := Parse(out)
	assert.Empty(t, errs)
	assert.Equal(t, header, gotHeader)
	if assert.Len(t, records, 2) {
		assert.Equal(t, rows[0], records[0].Fields)
		assert.Equal(t, rows[1], records[1].Fields)
	}
}

func TestRoundTripEmbeddedNewline(t *testing.T) {
	header := Row{"name", "address"}
	rows := []Row{{"Ana", "Jl. Merdeka 1\nBlok B"}}

	out := Write(header, rows)
	_, records, errs := Parse(out)
	assert.Empty(t, errs)
	if assert.Len(t, records, 1) {
		assert.Equal(t, "Jl. Merdeka 1\nBlok B", records[0].Fields[1])
	}
}

func TestBillItemsRoundTrip(t *testing.T) {
	items := []BillItem{
		{Name: "Denim Jacket", Quantity: 2, Price: 1499.5, Total: 2999},
		{Name: "Cotton Tee", Quantity: 1, Price: 399, Total: 399},
	}

	cell := FormatBillItems(items)
	assert.Equal(t, "Denim Jacket (Qty: 2, Price: 1499.5, Total: 2999); Cotton Tee (Qty: 1, Price: 399, Total: 399)", cell)

	parsed, err := ParseBillItems(cell)
	assert.NoError(t, err)
	assert.Equal(t, items, parsed)
}

func TestParseBillItemsRejectsMalformed(t *testing.T) {
	_, err := ParseBillItems("Denim Jacket (Qty: two, Price: 1, Total: 1)")
	assert.Error(t, err)

	parsed, err := ParseBillItems("")
	assert.NoError(t, err)
	assert.Nil(t, parsed)
}
