package exports

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"pehlione.com/catalog/internal/modules/variants"
)

func sample() []variants.VariantRecord {
	var own variants.ImageSlots
	own[0] = variants.URLImage("own.png")
	return []variants.VariantRecord{
		{Name: "Color: Red / Size: S", SKU: "T-R-S", StockQuantity: "3", StockStatus: variants.InStock, Images: own},
		{Name: "Color: Blue / Size: S", StockQuantity: "2", StockStatus: variants.OutOfStock},
		{Name: "Color: Red / Size: M", StockQuantity: "x", StockStatus: variants.InStock},
	}
}

func TestRowsGroupOrderAndImages(t *testing.T) {
	rows := Rows(sample(), "Color", map[string][]variants.Image{"Red": {variants.URLImage("red.png")}})

	var got []string
	for _, r := range rows {
		got = append(got, r.Group+"|"+r.Name+"|"+r.Images)
	}
	want := []string{
		"Red|Color: Red / Size: S|own.png",
		"Red|Color: Red / Size: M|red.png",
		"Blue|Color: Blue / Size: S|",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %q", got)
	}
	if rows[1].StockQuantity != 0 || rows[0].Options != "Color:Red|Size:S" {
		t.Errorf("row fields = %+v", rows[0:2])
	}
	if totalStock(rows) != 5 {
		t.Errorf("total = %d", totalStock(rows))
	}
}

func TestCSVRoundTrip(t *testing.T) {
	rows := Rows(sample(), "", nil)
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatal(err)
	}
	back, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, rows) {
		t.Errorf("csv round trip:\n got %+v\nwant %+v", back, rows)
	}
}

func TestCSVEmptyWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	want := "group,name,sku,options,mrp,offer_price,cost_price,stock_status,stock_quantity,images,description\n"
	if buf.String() != want {
		t.Errorf("header = %q", buf.String())
	}
}

func TestWriteXLSX(t *testing.T) {
	rows := Rows(sample(), "Color", nil)
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, rows); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(rows)+2 {
		t.Fatalf("sheet has %d rows", len(got))
	}
	if got[0][0] != "Group" || got[1][2] != "T-R-S" {
		t.Errorf("header/first row = %q / %q", got[0], got[1])
	}
	summary := got[len(got)-1]
	if summary[0] != "Total" || summary[8] != "5" {
		t.Errorf("summary = %q", summary)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteXLSXReportsErrors(t *testing.T) {
	if err := WriteXLSX(failingWriter{}, Rows(sample(), "", nil)); err == nil {
		t.Fatal("write error was swallowed")
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, nil); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if wd, err := f.GetColWidth(sheetName, "J"); err != nil || wd != 40 {
		t.Errorf("images column width = %v, %v", wd, err)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(""))
	if err != nil || rows != nil {
		t.Errorf("ReadCSV(empty) = %v, %v", rows, err)
	}
}
