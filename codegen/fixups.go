// Package codegen post-processes generated files. bpf2go output needs
// a few mechanical rewrites before it fits this tree, the rules live
// in a yaml file next to the magefile targets that run them.
package codegen

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"
)

type fixup struct {
	Description string `json:"Desc"`

	// Regex replace applied to every file matching Glob.
	Match   string `json:"Match"`
	Replace string `json:"Replace"`
	Glob    string `json:"Glob"`
}

type fixupFile struct {
	verbose bool

	ExcludedFiles     []string `json:"ExcludedFiles"`
	excluded_file_res []*regexp.Regexp
	Fixups            []fixup `json:"Fixups"`
}

func LoadFixups(filename string) (*fixupFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	res := &fixupFile{}
	err = yaml.Unmarshal(data, res)
	if err != nil {
		return nil, err
	}

	for _, e := range res.ExcludedFiles {
		re, err := regexp.Compile(e)
		if err != nil {
			return nil, err
		}
		res.excluded_file_res = append(res.excluded_file_res, re)
	}

	return res, nil
}

func (self *fixupFile) SetVerbose(v bool) {
	self.verbose = v
}

func (self *fixupFile) logDebug(message string, args ...interface{}) {
	if self.verbose {
		fmt.Printf(message, args...)
	}
}

func (self *fixupFile) logInfo(message string, args ...interface{}) {
	fmt.Printf(message, args...)
}

func (self *fixupFile) isFilenameExcluded(name string) bool {
	for _, e := range self.excluded_file_res {
		if e.MatchString(name) {
			return true
		}
	}
	return false
}

func (self *fixupFile) Apply() error {
	for _, f := range self.Fixups {
		if f.Glob == "" {
			continue
		}

		basepath, pattern := doublestar.SplitPattern(f.Glob)
		self.logInfo("%v: Replacing %v in %v\n",
			f.Description, f.Match, f.Glob)

		fsys := os.DirFS(basepath)
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return err
		}

		for _, match := range matches {
			if self.isFilenameExcluded(match) {
				continue
			}

			filename := filepath.Join(basepath, match)
			self.logDebug("  %v\n", filename)

			err = replaceRegexInFile(filename, f.Match, f.Replace)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func replaceRegexInFile(filename string, old string, new string) error {
	old_re, err := regexp.Compile(old)
	if err != nil {
		return err
	}

	read, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	newContents := old_re.ReplaceAll(read, []byte(new))
	return os.WriteFile(filename, newContents, 0644)
}
