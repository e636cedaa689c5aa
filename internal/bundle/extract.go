// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

// Package bundle extracts untrusted .tar.gz skill bundles into
// request-scoped temporary workspaces.
//
// The extractor defends against hostile archives: path traversal members
// are rejected, cumulative decompressed size is bounded, and only regular
// files and directories are materialized (no device nodes, no symlinks, no
// setuid bits). The workspace is removed on every exit path.
package bundle

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentskills/registry/internal/manifest"
)

// manifestName is the required manifest file inside every bundle.
const manifestName = "SKILL.md"

// extractedFileMode masks out setuid/setgid/sticky and group/world write bits.
const extractedFileMode = 0o755

// Bundle is an extracted archive in a temporary workspace.
// Callers must Close it to release the workspace.
type Bundle struct {
	// Dir is the temporary extraction root.
	Dir string

	// MemberPaths lists every archive member, normalized with any leading
	// "./" stripped, in archive order.
	MemberPaths []string

	// ManifestPath is the absolute path of SKILL.md inside Dir.
	ManifestPath string
}

// Close removes the extraction workspace.
func (b *Bundle) Close() error {
	if b.Dir == "" {
		return nil
	}
	return os.RemoveAll(b.Dir)
}

// Extract unpacks data (a gzip-compressed tar) into a fresh temporary
// directory, enforcing maxDecompressed as the cumulative file-size bound.
// On any error the workspace is already removed.
func Extract(data []byte, maxDecompressed int64) (*Bundle, error) {
	tmpdir, err := os.MkdirTemp("", "skill-bundle-*")
	if err != nil {
		return nil, err
	}

	b, err := extractInto(tmpdir, data, maxDecompressed)
	if err != nil {
		os.RemoveAll(tmpdir)
		return nil, err
	}
	return b, nil
}

func extractInto(tmpdir string, data []byte, maxDecompressed int64) (*Bundle, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, manifest.Errorf("Invalid .tar.gz file")
	}
	defer gz.Close()

	tr := tar.NewReader(gz)

	var (
		memberPaths []string
		totalSize   int64
	)

	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, manifest.Errorf("Invalid .tar.gz file")
		}

		name := normalizeMemberPath(hdr.Name)
		if name == "" {
			continue
		}

		target, err := securePath(tmpdir, name)
		if err != nil {
			return nil, err
		}

		memberPaths = append(memberPaths, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, extractedFileMode); err != nil {
				return nil, err
			}

		case tar.TypeReg:
			totalSize += hdr.Size
			if totalSize > maxDecompressed {
				return nil, manifest.Errorf("Decompressed size exceeds %d bytes limit", maxDecompressed)
			}
			if err := writeFile(target, tr, hdr.Size); err != nil {
				return nil, err
			}

		default:
			// Symlinks, hardlinks, devices, and FIFOs are never materialized.
			// The member still counts toward the path list for provider
			// detection, but nothing is written to disk.
		}
	}

	manifestPath, err := findManifest(tmpdir)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		Dir:          tmpdir,
		MemberPaths:  memberPaths,
		ManifestPath: manifestPath,
	}, nil
}

// normalizeMemberPath strips leading "./" segments and trailing slashes
// from an archive member name.
func normalizeMemberPath(name string) string {
	for strings.HasPrefix(name, "./") {
		name = name[2:]
	}
	name = strings.TrimSuffix(name, "/")
	if name == "." {
		return ""
	}
	return name
}

// securePath resolves name under root and rejects members that escape it.
func securePath(root, name string) (string, error) {
	target := filepath.Join(root, name)
	cleanRoot := filepath.Clean(root)
	if target != cleanRoot && !strings.HasPrefix(target, cleanRoot+string(os.PathSeparator)) {
		return "", manifest.Errorf("Path traversal detected: %s", name)
	}
	return target, nil
}

// writeFile copies exactly size bytes from r into path, creating parent
// directories as needed.
func writeFile(path string, r io.Reader, size int64) error {
	if err := os.MkdirAll(filepath.Dir(path), extractedFileMode); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	// LimitReader guards against archives whose data stream exceeds the
	// declared header size.
	if _, err := io.Copy(f, io.LimitReader(r, size)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// findManifest locates SKILL.md at the extraction root or one directory deep.
func findManifest(root string) (string, error) {
	direct := filepath.Join(root, manifestName)
	if fi, err := os.Stat(direct); err == nil && fi.Mode().IsRegular() {
		return direct, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		nested := filepath.Join(root, entry.Name(), manifestName)
		if fi, err := os.Stat(nested); err == nil && fi.Mode().IsRegular() {
			return nested, nil
		}
	}
	return "", manifest.Errorf("No SKILL.md found in bundle")
}

// ExtractAndParse extracts data, parses and validates the SKILL.md manifest,
// and releases the workspace before returning. The member path list is
// returned alongside for provider detection.
func ExtractAndParse(data []byte, maxDecompressed int64) (*manifest.Parsed, []string, error) {
	b, err := Extract(data, maxDecompressed)
	if err != nil {
		return nil, nil, err
	}
	defer b.Close()

	content, err := os.ReadFile(b.ManifestPath)
	if err != nil {
		return nil, nil, err
	}

	parsed, err := manifest.Parse(string(content))
	if err != nil {
		return nil, nil, err
	}
	return parsed, b.MemberPaths, nil
}
