package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ehr/hvfhir/internal/config"
	"github.com/ehr/hvfhir/internal/platform/blobstore"
	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
	"github.com/ehr/hvfhir/internal/transform"
)

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert one document between item envelopes and FHIR JSON",
	}

	toFhir := &cobra.Command{
		Use:   "to-fhir",
		Short: "Read an item envelope and write the FHIR resource",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, convertToFhir)
		},
	}
	toHV := &cobra.Command{
		Use:   "to-healthvault",
		Short: "Read a FHIR resource and write the item envelope",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, convertToHealthVault)
		},
	}
	for _, c := range []*cobra.Command{toFhir, toHV} {
		c.Flags().String("in", "-", "Input file, - for stdin")
		c.Flags().String("out", "-", "Output file, - for stdout")
		c.Flags().Bool("blobs", false, "Use the configured blob store for file content")
		cmd.AddCommand(c)
	}
	return cmd
}

type convertFunc func(cmd *cobra.Command, tr *transform.Transformer, in []byte) ([]byte, error)

func convertToFhir(cmd *cobra.Command, tr *transform.Transformer, in []byte) ([]byte, error) {
	item, err := thing.Decode(in)
	if err != nil {
		return nil, err
	}
	res, err := tr.ToFhir(cmd.Context(), item)
	if err != nil {
		return nil, err
	}
	return fhir.EncodeIndent(res)
}

func convertToHealthVault(cmd *cobra.Command, tr *transform.Transformer, in []byte) ([]byte, error) {
	res, err := fhir.Decode(in)
	if err != nil {
		return nil, err
	}
	item, err := tr.ToHealthVault(cmd.Context(), res)
	if err != nil {
		return nil, err
	}
	return thing.EncodeIndent(item)
}

func runConvert(cmd *cobra.Command, fn convertFunc) error {
	inPath, _ := cmd.Flags().GetString("in")
	outPath, _ := cmd.Flags().GetString("out")
	useBlobs, _ := cmd.Flags().GetBool("blobs")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := stderrLogger(cfg)

	var store blobstore.BlobStore
	if useBlobs {
		s, pool, err := openBlobStore(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		if pool != nil {
			defer pool.Close()
		}
		store = s
	}

	tr, err := newTransformer(cfg, logger, store)
	if err != nil {
		return err
	}

	in, err := readInput(cmd, inPath)
	if err != nil {
		return err
	}
	out, err := fn(cmd, tr, in)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	return writeOutput(cmd, outPath, append(out, '\n'))
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
