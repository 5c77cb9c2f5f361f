package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	audioimpl "github.com/foxseedlab/leopard/external/audio"
	"github.com/foxseedlab/leopard/internal/leopard"
	"github.com/foxseedlab/leopard/internal/repository"
	"github.com/foxseedlab/leopard/internal/server"
	"github.com/foxseedlab/leopard/internal/transcription"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "leopard",
		Short:         "Speech-to-text powered by the Leopard engine",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log engine lifecycle to stderr")
	flags.StringVarP(&a.accessKey, "access_key", "a", "", "AccessKey obtained from Picovoice Console (https://console.picovoice.ai/)")
	flags.StringVarP(&a.libraryPath, "library_path", "l", "", "absolute path to the Leopard shared library")
	flags.StringVarP(&a.modelPath, "model_path", "m", "", "absolute path to the Leopard model file")
	flags.StringVar(&a.resourceDir, "resource_dir", "", "directory holding lib/<os>/<cpu>/ and lib/common/")

	rootCmd.AddCommand(a.newFileCommand(), a.newMicCommand(), a.newServeCommand(), a.newInfoCommand())
	return rootCmd
}

func (a *app) newFileCommand() *cobra.Command {
	var inputPath string
	var pcm bool

	cmd := &cobra.Command{
		Use:   "file",
		Short: "Transcribe an audio file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, cleanup, err := a.newService(cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer cleanup()

			mode := repository.ModeFile
			if pcm {
				mode = repository.ModePCM
			}
			t, err := svc.TranscribeFile(cmd.Context(), transcription.Request{Path: inputPath, Mode: mode})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input_audio_path", "i", "",
		"absolute path to the input audio file ("+strings.Join(leopard.SupportedExtensions(), ", ")+")")
	cmd.Flags().BoolVar(&pcm, "pcm", false, "decode the file locally and send PCM to the engine")
	_ = cmd.MarkFlagRequired("input_audio_path")
	return cmd
}

func (a *app) newMicCommand() *cobra.Command {
	var deviceIndex int
	var showDevices bool

	cmd := &cobra.Command{
		Use:   "mic",
		Short: "Record from a microphone and transcribe each take",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showDevices {
				return printDevices(cmd.OutOrStdout())
			}

			svc, _, cleanup, err := a.newService(cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer cleanup()

			recorder, err := audioimpl.NewRecorder(svc.Engine().SampleRate)
			if err != nil {
				return err
			}
			defer func() {
				if err := recorder.Close(); err != nil {
					slog.Warn("failed to close recorder", "error", err)
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			lines := readLines(cmd.InOrStdin())
			out := cmd.OutOrStdout()
			prompt := cmd.ErrOrStderr()
			for {
				fmt.Fprint(prompt, ">>> Press `ENTER` to start recording: ")
				if !waitLine(ctx, lines) {
					return nil
				}
				if err := recorder.Start(ctx, deviceIndex); err != nil {
					return fmt.Errorf("start recording: %w", err)
				}

				fmt.Fprint(prompt, ">>> Recording... Press `ENTER` to stop: ")
				stopped := waitLine(ctx, lines)
				pcm, err := recorder.Stop()
				if err != nil {
					return fmt.Errorf("stop recording: %w", err)
				}
				if !stopped {
					return nil
				}

				t, err := svc.TranscribeSamples(ctx, "microphone", pcm)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, t.Text)
			}
		},
	}
	cmd.Flags().IntVar(&deviceIndex, "audio_device_index", -1, "index of the input audio device (-1 = default)")
	cmd.Flags().BoolVar(&showDevices, "show_audio_devices", false, "list available input devices and exit")
	return cmd
}

func (a *app) newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start a transcription HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, cleanup, err := a.newService(cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			defer cleanup()

			if addr == "" {
				addr = cfg.ListenAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(svc).ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "address to listen on (defaults to LISTEN_ADDR)")
	return cmd
}

func (a *app) newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print engine version and sample rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, cleanup, err := a.newService(cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer cleanup()

			info := svc.Engine()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Engine: %s\n", info.Name)
			fmt.Fprintf(out, "Version: %s\n", info.Version)
			fmt.Fprintf(out, "Sample rate: %d\n", info.SampleRate)
			return nil
		},
	}
}

func printDevices(w io.Writer) error {
	recorder, err := audioimpl.NewRecorder(0)
	if err != nil {
		return err
	}
	defer recorder.Close()

	devices, err := recorder.Devices()
	if err != nil {
		return err
	}
	for _, d := range devices {
		fmt.Fprintf(w, "index: %d, device name: %s\n", d.Index, d.Name)
	}
	return nil
}

func readLines(r io.Reader) <-chan struct{} {
	lines := make(chan struct{})
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- struct{}{}
		}
	}()
	return lines
}

// waitLine reports whether a line arrived before ctx ended or input closed.
func waitLine(ctx context.Context, lines <-chan struct{}) bool {
	select {
	case <-ctx.Done():
		return false
	case _, ok := <-lines:
		return ok
	}
}
