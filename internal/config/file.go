package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// File is the optional on-disk defaults file (HCL). Every attribute is
// optional; pointer fields distinguish "absent" from "set to zero value".
//
//	source_file      = "/etc/nftables-candidate.conf"
//	destination_file = "/etc/nftables.conf"
//	backup_dir       = "/etc/nftables"
//	timeout_seconds  = 15
//	guard_services   = ["fail2ban"]
//	probe_target     = "192.0.2.1"
type File struct {
	SourceFile      *string  `hcl:"source_file,optional"`
	DestinationFile *string  `hcl:"destination_file,optional"`
	BackupDir       *string  `hcl:"backup_dir,optional"`
	TimeoutSeconds  *int     `hcl:"timeout_seconds,optional"`
	GuardServices   []string `hcl:"guard_services,optional"`
	ProbeTarget     *string  `hcl:"probe_target,optional"`
}

// LoadFile reads and parses the tool config file at path.
// A missing file surfaces as an os.ErrNotExist-wrapped error; callers decide
// whether that is fatal (explicit -c flag) or ignorable (default location).
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseFile(data, path)
}

// ParseFile parses HCL bytes into a File.
func ParseFile(data []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("HCL parse error: %s", diags.Error())
	}

	var file File
	if diags := gohcl.DecodeBody(f.Body, nil, &file); diags.HasErrors() {
		return nil, fmt.Errorf("HCL decode error: %s", diags.Error())
	}
	return &file, nil
}

// ApplyTo overlays the file's set attributes onto r.
func (f *File) ApplyTo(r *Run) {
	if f.SourceFile != nil {
		r.SourceFile = *f.SourceFile
	}
	if f.DestinationFile != nil {
		r.DestinationFile = *f.DestinationFile
	}
	if f.BackupDir != nil {
		r.BackupDir = *f.BackupDir
	}
	if f.TimeoutSeconds != nil {
		r.Timeout = time.Duration(*f.TimeoutSeconds) * time.Second
	}
	if f.GuardServices != nil {
		r.GuardServices = append([]string(nil), f.GuardServices...)
	}
	if f.ProbeTarget != nil {
		r.ProbeTarget = *f.ProbeTarget
	}
}
