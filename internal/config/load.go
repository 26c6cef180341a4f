// Package config loads a project descriptor from disk into the in-memory
// project.Project model and validates it before the server starts. The
// descriptor file format itself is owned by the tooling that writes it;
// this package only needs to turn bytes into the model structs.
package config

import (
	"fmt"
	"os"

	"github.com/tairasoul/ccsync/internal/project"
	"gopkg.in/yaml.v3"
)

// docProject mirrors project.Project for decoding. The descriptor is
// decoded as YAML: an optional field is written bare when present and
// omitted when absent, the same shape RON's implicit-Some extension
// gives. RON-only syntax (parenthesized structs, explicit Some(...)
// wrappers) is not parsed.
type docProject struct {
	RootDir                string    `yaml:"root_dir"`
	Items                  []docItem `yaml:"items"`
	MaxUncompressedReqSize int       `yaml:"max_uncompressed_request_size"`
	Minify                 *bool     `yaml:"minify"`
	DeflateTrickery        *bool     `yaml:"deflate_trickery"`
	RequirePrefix          *string   `yaml:"require_prefix"`
	PrefixExclusions       *[]string `yaml:"prefix_exclusions"`
	LZOnDeflate            *bool     `yaml:"lz_on_deflate"`
	Port                   int       `yaml:"port"`
	SyncInterval           *int      `yaml:"sync_interval"`
}

type docItem struct {
	ChannelName      string    `yaml:"channel_name"`
	Type             string    `yaml:"type"`
	Files            []docFile `yaml:"files"`
	Directories      []docDir  `yaml:"directories"`
	RequiredChannels []string  `yaml:"required_channels"`
	Minify           *bool     `yaml:"minify"`
	DeflateTrickery  *bool     `yaml:"deflate_trickery"`
	RequirePrefix    *string   `yaml:"require_prefix"`
	PrefixExclusions *[]string `yaml:"prefix_exclusions"`
}

type docFile struct {
	Path             string    `yaml:"path"`
	CCPath           *string   `yaml:"cc_path"`
	Bundle           *bool     `yaml:"bundle"`
	Minify           *bool     `yaml:"minify"`
	DeflateTrickery  *bool     `yaml:"deflate_trickery"`
	RequirePrefix    *string   `yaml:"require_prefix"`
	PrefixExclusions *[]string `yaml:"prefix_exclusions"`
}

type docDir struct {
	Path             string    `yaml:"path"`
	Minify           *bool     `yaml:"minify"`
	DeflateTrickery  *bool     `yaml:"deflate_trickery"`
	RequirePrefix    *string   `yaml:"require_prefix"`
	PrefixExclusions *[]string `yaml:"prefix_exclusions"`
}

// Load reads and decodes the descriptor at path, validates it, and returns
// the resolved project.Project.
func Load(path string) (*project.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project descriptor: %w", err)
	}

	var doc docProject
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse project descriptor: %w", err)
	}

	p := &project.Project{
		RootDir:                doc.RootDir,
		MaxUncompressedReqSize: doc.MaxUncompressedReqSize,
		Port:                   doc.Port,
		SyncIntervalSeconds:    project.DefaultSyncIntervalSeconds,
		LZOnDeflate:            doc.LZOnDeflate != nil && *doc.LZOnDeflate,
		Overrides: project.Overrides{
			Minify:           doc.Minify,
			DeflateTrickery:  doc.DeflateTrickery,
			RequirePrefix:    doc.RequirePrefix,
			PrefixExclusions: doc.PrefixExclusions,
		},
	}
	if doc.SyncInterval != nil {
		p.SyncIntervalSeconds = *doc.SyncInterval
	}

	for _, di := range doc.Items {
		item := project.Item{
			ChannelName:      di.ChannelName,
			Type:             itemType(di.Type),
			RequiredChannels: di.RequiredChannels,
			Overrides: project.Overrides{
				Minify:           di.Minify,
				DeflateTrickery:  di.DeflateTrickery,
				RequirePrefix:    di.RequirePrefix,
				PrefixExclusions: di.PrefixExclusions,
			},
		}
		for _, df := range di.Files {
			f := project.File{
				Path: df.Path,
				Overrides: project.Overrides{
					Minify:           df.Minify,
					DeflateTrickery:  df.DeflateTrickery,
					RequirePrefix:    df.RequirePrefix,
					PrefixExclusions: df.PrefixExclusions,
				},
			}
			if df.CCPath != nil {
				f.CCPath = *df.CCPath
			}
			if df.Bundle != nil {
				f.Bundle = *df.Bundle
			}
			item.Files = append(item.Files, f)
		}
		for _, dd := range di.Directories {
			item.Directories = append(item.Directories, project.Directory{
				Path: dd.Path,
				Overrides: project.Overrides{
					Minify:           dd.Minify,
					DeflateTrickery:  dd.DeflateTrickery,
					RequirePrefix:    dd.RequirePrefix,
					PrefixExclusions: dd.PrefixExclusions,
				},
			})
		}
		p.Items = append(p.Items, item)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	rootInfo, err := os.Stat(p.RootDir)
	if err != nil || !rootInfo.IsDir() {
		return nil, fmt.Errorf("root directory %q not found relative to current directory", p.RootDir)
	}

	return p, nil
}

func itemType(s string) project.ItemType {
	switch s {
	case "Resource", "resource":
		return project.Resource
	case "Script", "script":
		return project.Script
	default:
		return project.Library
	}
}
