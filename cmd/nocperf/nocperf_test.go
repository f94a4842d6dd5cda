package main

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/nocperf/estimation"
)

func run(args ...string) (string, error) {
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return out.String(), err
}

var _ = Describe("nocperf", func() {
	It("should parse mesh sizes", func() {
		meshes, err := parseMeshSizes([]string{"4x4", "8X2"})

		Expect(err).NotTo(HaveOccurred())
		Expect(meshes).To(Equal([][2]int{{4, 4}, {8, 2}}))
	})

	It("should reject malformed mesh sizes", func() {
		_, err := parseMeshSizes([]string{"16"})
		Expect(err).To(HaveOccurred())

		_, err = parseMeshSizes([]string{"ax4"})
		Expect(err).To(HaveOccurred())
	})

	It("should list the zoo", func() {
		out, err := run("zoo")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("LeNet5"))
		Expect(out).To(ContainSubstring("MobileNetBlock"))
	})

	It("should drop trace records without a log file", func() {
		_, err := run("zoo", "--log", "")

		Expect(err).NotTo(HaveOccurred())
		Expect(slog.Default().Enabled(context.Background(),
			estimation.LevelTrace)).To(BeFalse())
		Expect(slog.Default().Enabled(context.Background(),
			slog.LevelWarn)).To(BeTrue())
	})

	It("should write trace records to the log file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "trace.json")
		DeferCleanup(func() { _, _ = run("zoo", "--log", "") })

		_, err := run("zoo", "--log", path)

		Expect(err).NotTo(HaveOccurred())
		Expect(slog.Default().Enabled(context.Background(),
			estimation.LevelTrace)).To(BeTrue())
		Expect(path).To(BeAnExistingFile())
	})

	It("should print a zoo network as YAML", func() {
		out, err := run("zoo", "TinyVGG")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("name: TinyVGG"))
		Expect(out).To(ContainSubstring("kind: conv"))
	})

	It("should estimate a zoo network", func() {
		out, err := run("stime", "--zoo", "TinyVGG")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("ESTIMATION REPORT: TinyVGG"))
	})

	It("should sweep mesh sizes", func() {
		out, err := run("sweep", "--zoo", "LeNet5", "--mesh", "2x2,4x4",
			"--parallel", "2")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("2x2/65536B"))
		Expect(out).To(ContainSubstring("4x4/65536B"))
	})

	It("should print the default platform", func() {
		out, err := run("platform")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("mesh_width: 4"))
		Expect(out).To(ContainSubstring("zoo: LeNet5"))
	})
})
