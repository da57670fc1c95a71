package report

import (
	"io"

	"github.com/gocarina/gocsv"
)

func WriteCSV(w io.Writer, rows []Row) error {
	return gocsv.Marshal(rows, w)
}
