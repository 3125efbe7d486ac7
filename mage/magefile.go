//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

const (
	BIN_DIR       = "../bin"
	SERVER_BINARY = "../bin/chatwire-server"
	SCHEMA_BINARY = "../bin/schemagen"
	SERVER_MAIN   = "../cmd/server"
	SCHEMA_MAIN   = "../cmd/schemagen"
	SCHEMA_DOC    = "../docs/protocol.yaml"
	PACKAGES      = "../..."
)

// Build compiles the gateway and the schema generator.
func Build() error {
	fmt.Println("🔨 Building server binary...")
	if err := runCmd("go", "build", "-o", SERVER_BINARY, SERVER_MAIN); err != nil {
		return err
	}
	fmt.Println("🔨 Building schemagen binary...")
	return runCmd("go", "build", "-o", SCHEMA_BINARY, SCHEMA_MAIN)
}

func Test() error {
	fmt.Println("🧪 Running tests...")
	return runCmd("go", "test", "-race", "-count=1", PACKAGES)
}

// Schema regenerates the protocol interface document.
func Schema() error {
	mg.Deps(Build)
	fmt.Println("📄 Writing protocol schema...")
	if err := os.MkdirAll("../docs", 0o755); err != nil {
		return err
	}
	return runCmd(SCHEMA_BINARY, "--format", "yaml", "--out", SCHEMA_DOC)
}

func Run() error {
	mg.Deps(Build)
	fmt.Println("▶️  Starting gateway...")
	return runCmd(SERVER_BINARY)
}

func Clean() {
	fmt.Println("🧹 Cleaning up...")
	os.RemoveAll(BIN_DIR)
}

func runCmd(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
