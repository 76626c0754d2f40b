//go:build mage
// +build mage

package main

import (
	"os"
	"runtime"

	"github.com/Global19-atlassian-net/vltrace/codegen"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Builder struct{}

func (self *Builder) Env() map[string]string {
	env := make(map[string]string)
	return env
}

func (self *Builder) cwd(dir string) (func(), error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	err = os.Chdir(dir)
	if err != nil {
		return nil, err
	}

	return func() {
		os.Chdir(cwd)
	}, nil
}

func (self *Builder) Bin() error {
	err := sh.RunWith(self.Env(), mg.GoCmd(), "build",
		"-o", "./vltrace",
		"./userspace/cmd/",
	)
	if err != nil {
		return err
	}

	return sh.RunWith(self.Env(), mg.GoCmd(), "build",
		"-o", "./vltrace-sc",
		"./userspace/sctool/",
	)
}

func (self *Builder) Race() error {
	return sh.RunWith(self.Env(), mg.GoCmd(), "build",
		"-o", "./vltrace", "-race",
		"./userspace/cmd/",
	)
}

func (self *Builder) Generate() error {
	closer, err := self.cwd("manager")
	if err != nil {
		return err
	}
	defer closer()

	if runtime.GOARCH != "amd64" {
		panic("Architecture not supported!")
	}

	return sh.RunWith(self.Env(), mg.GoCmd(), "run",
		"github.com/cilium/ebpf/cmd/bpf2go",
		"-type", "config_entry_t",
		"-type", "ev_dt_t",
		"-no-global-types",
		"-target", "bpfel",
		"-go-package", "manager",
		"vltrace", "../c/vltrace.bpf.c",
		"--", "-I../c/", "-D__TARGET_ARCH_x86",
	)
}

// Build ebpf files.
//
// This needs to only be run if the ebpf C code changes! The compiled
// object is shipped alongside the binary and loaded from disk.
func Generate() error {
	builder := Builder{}

	err := builder.Generate()
	if err != nil {
		return err
	}

	return FixGenerated()
}

// Apply the mechanical rewrites the generated files need.
func FixGenerated() error {
	fixups, err := codegen.LoadFixups("codegen/fixups.yaml")
	if err != nil {
		return err
	}

	return fixups.Apply()
}

func Bin() error {
	builder := Builder{}
	return builder.Bin()
}

func Race() error {
	builder := Builder{}
	return builder.Race()
}

func Test() error {
	return sh.RunWith(nil, mg.GoCmd(), "test", "./...")
}
