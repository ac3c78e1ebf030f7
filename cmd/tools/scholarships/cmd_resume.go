package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/david/scholarship-finder/internal/catalog"
	"github.com/david/scholarship-finder/internal/models"
	"github.com/david/scholarship-finder/internal/transport"
)

var (
	writeName  string
	writeMajor string
	writeGrade string
	writeCerts string
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Upload, write or inspect your résumé",
}

var resumeUploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>",
	Short: "Upload a PDF résumé and list the recommendations it yields",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumeUpload,
}

var resumeWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Submit a résumé from flags",
	RunE:  runResumeWrite,
}

var resumeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored résumé",
	RunE:  runResumeShow,
}

func init() {
	resumeWriteCmd.Flags().StringVar(&writeName, "name", "", "Full name")
	resumeWriteCmd.Flags().StringVar(&writeMajor, "major", "", "Major")
	resumeWriteCmd.Flags().StringVar(&writeGrade, "grade", "", "Grade")
	resumeWriteCmd.Flags().StringVar(&writeCerts, "certs", "", "Certificates, free text")

	resumeCmd.AddCommand(resumeUploadCmd)
	resumeCmd.AddCommand(resumeWriteCmd)
	resumeCmd.AddCommand(resumeShowCmd)
}

// userMessage returns the backend's message when there is one.
func userMessage(err error) error {
	if apiErr, ok := transport.IsAPIError(err); ok {
		return errors.New(apiErr.Message)
	}
	return err
}

func runResumeUpload(cmd *cobra.Command, args []string) error {
	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	pages, err := catalog.ValidatePDF(content)
	if err != nil {
		return err
	}

	id := studentID()
	result, err := service.UploadResume(cmd.Context(), id, filepath.Base(path), bytes.NewReader(content))
	if err != nil {
		return userMessage(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Uploaded %s (%d pages) for %s\n", filepath.Base(path), pages, id)
	fmt.Fprintf(out, "Major: %s  Grade: %s  Certificates: %s\n\n",
		result.ResumeData.Major, result.ResumeData.Grade, result.ResumeData.Certificates)
	renderScholarships(out, result.Recommended)
	return nil
}

func runResumeWrite(cmd *cobra.Command, args []string) error {
	id := studentID()
	resp, err := service.WriteResume(cmd.Context(), id, models.ResumeWriteRequest{
		Name:         writeName,
		Major:        writeMajor,
		Grade:        writeGrade,
		Certificates: writeCerts,
	})
	if err != nil {
		return userMessage(err)
	}
	printResume(cmd, resp)
	return nil
}

func runResumeShow(cmd *cobra.Command, args []string) error {
	resp, err := service.GetResume(cmd.Context(), studentID())
	if err != nil {
		return userMessage(err)
	}
	printResume(cmd, resp)
	return nil
}

func printResume(cmd *cobra.Command, r models.ResumeResponse) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Résumé %s\n", r.ResumeID)
	fmt.Fprintf(out, "File:   %s\n", r.FileName)
	fmt.Fprintf(out, "URL:    %s\n", r.URL)
}
