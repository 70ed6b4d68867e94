// Package ambers reads SPSS system files (.sav and compressed .zsav)
// without depending on any SPSS installation or C library. It provides
// three convenience wrappers around the scan package, covering the
// common cases; for column projection, row limits, or streaming over a
// large file one batch at a time, use Scan directly.
//
// # Basic Usage
//
// Reading an entire file in one call:
//
//	import "github.com/albertxli/ambers"
//
//	batch, meta, err := ambers.ReadSAV(context.Background(), "survey.sav")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d rows, %d columns\n", batch.NumRows(), len(batch.Schema.Fields))
//
// Reading only the metadata, without decoding any rows:
//
//	meta, err := ambers.ReadMetadata(context.Background(), "survey.sav")
//	for _, name := range meta.VariableNames {
//	    fmt.Println(name, meta.VariableLabels[name])
//	}
//
// Streaming in batches, with a column projection:
//
//	s, err := ambers.Scan(context.Background(), "survey.sav",
//	    scan.WithProjection([]string{"AGE", "INCOME"}),
//	    scan.WithBatchSize(4096),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for {
//	    batch, err := s.NextBatch()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if batch == nil {
//	        break
//	    }
//	    process(batch)
//	}
//
// # Package Structure
//
// This package is a thin convenience layer over scan, which itself
// composes header, dict, columnar, bytecode, and zblock. Programs that
// need fine-grained control — projection, limits, or manual batch
// pacing — should import scan directly; programs that just want rows
// or metadata out of a file can stay on this package alone.
package ambers

import (
	"context"
	"os"

	"github.com/albertxli/ambers/columnar"
	"github.com/albertxli/ambers/dict"
	"github.com/albertxli/ambers/errs"
	"github.com/albertxli/ambers/scan"
)

// ReadSAV opens path and eagerly reads every row into a single batch,
// along with the file's resolved metadata. For large files, prefer
// Scan with NextBatch or CollectAll to bound memory use.
//
// Example:
//
//	batch, meta, err := ambers.ReadSAV(ctx, "survey.sav")
func ReadSAV(ctx context.Context, path string) (*columnar.Batch, *dict.Metadata, error) {
	s, err := Scan(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	defer s.Close()

	batch, err := s.CollectSingle()
	if err != nil {
		return nil, nil, err
	}

	return batch, s.Metadata(), nil
}

// ReadMetadata opens path through Scan and returns the resolved
// metadata without decoding any rows. Because it goes through
// scan.Open, byte-code and zlib files still have their whole compressed
// data section read (and, for zlib, inflated) into memory; only
// uncompressed files are left unread past the dictionary. Use this to
// inspect variable names, labels, value labels, or missing-value specs
// without building any column data.
//
// Example:
//
//	meta, err := ambers.ReadMetadata(ctx, "survey.sav")
func ReadMetadata(ctx context.Context, path string) (*dict.Metadata, error) {
	s, err := Scan(ctx, path)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	return s.Metadata(), nil
}

// Scan opens path and returns a Scanner positioned at the first row,
// with header and dictionary already parsed. opts configure batch
// size, column projection, and row limit (see scan.WithBatchSize,
// scan.WithProjection, scan.WithLimit). Callers must call Close on the
// returned Scanner once done with it to release the open file.
//
// Example:
//
//	s, err := ambers.Scan(ctx, "survey.sav", scan.WithBatchSize(8192))
//	defer s.Close()
func Scan(ctx context.Context, path string, opts ...scan.Option) (*scan.Scanner, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.IoErr(err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errs.IoErr(err)
	}

	s, err := scan.Open(f, opts...)
	if err != nil {
		_ = f.Close()

		return nil, err
	}

	return s, nil
}
