package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/radiomesh/scenesynth/internal/composite"
	"github.com/radiomesh/scenesynth/internal/config"
	"github.com/radiomesh/scenesynth/internal/influx"
	"github.com/radiomesh/scenesynth/internal/logging"
	"github.com/radiomesh/scenesynth/internal/mask"
	"github.com/radiomesh/scenesynth/internal/pipeline"
	"github.com/radiomesh/scenesynth/internal/radio"
	"github.com/radiomesh/scenesynth/internal/storage"
)

const appName = "scenesynth"

var (
	configDir string
	logger    zerolog.Logger
	logFile   *os.File
)

var rootCmd = &cobra.Command{
	Use:   "scenesynth",
	Short: "Turn OpenStreetMap extracts into solver-ready 3D scenes and signal maps",
	Long: `scenesynth converts OpenStreetMap building data into extruded 3D scenes
for an external ray-tracing solver, and composites the solver's power
grids into grayscale signal maps overlaid with the structure mask.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Synthesize scenes for every area in the input directory",
	Long: `Process every *.osm file in the input directory: project, extract
building footprints, clip to the region square, extrude, and write the
mesh pair, scene document, and occupancy mask per area.`,
	RunE: runSynth,
}

var overlayCmd = &cobra.Command{
	Use:   "overlay",
	Short: "Composite a solver power grid with a structure mask",
	RunE:  runOverlay,
}

var txmapCmd = &cobra.Command{
	Use:   "txmap",
	Short: "Draw transmitter markers from a grid archive onto a base image",
	RunE:  runTxmap,
}

var (
	osmDir  string
	outDir  string
	workers int

	gridFile string
	maskFile string
	baseFile string
	outFile  string
	policy   string
	fitMode  string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "Directory containing scenesynth.cfg.json")

	synthCmd.Flags().StringVar(&osmDir, "osm-dir", ".", "Directory of *.osm area files")
	synthCmd.Flags().StringVar(&outDir, "out-dir", "./out", "Directory for generated artifacts")
	synthCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Extrusion workers (0 = all CPUs)")

	overlayCmd.Flags().StringVar(&gridFile, "grid", "", "Solver power grid (.npy or .npz)")
	overlayCmd.Flags().StringVar(&maskFile, "mask", "", "Occupancy mask PNG")
	overlayCmd.Flags().StringVar(&outFile, "out", "", "Output PNG path")
	overlayCmd.Flags().StringVar(&policy, "policy", "", "Overlay policy (priority|blend), default from config")
	overlayCmd.Flags().StringVar(&fitMode, "fit", "", "Grid fitting (crop|resample), default from config")
	_ = overlayCmd.MarkFlagRequired("grid")
	_ = overlayCmd.MarkFlagRequired("mask")
	_ = overlayCmd.MarkFlagRequired("out")

	txmapCmd.Flags().StringVar(&gridFile, "grid", "", "Grid archive with transmitter positions (.npz)")
	txmapCmd.Flags().StringVar(&baseFile, "base", "", "Base image PNG")
	txmapCmd.Flags().StringVar(&outFile, "out", "", "Output PNG path")
	_ = txmapCmd.MarkFlagRequired("grid")
	_ = txmapCmd.MarkFlagRequired("base")
	_ = txmapCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(synthCmd, overlayCmd, txmapCmd)
}

// setup loads configuration and opens the session log. A missing config
// file is not fatal: defaults apply.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Load(configDir); err != nil {
		config.SetDefaults()
		fmt.Fprintf(os.Stderr, "no config file loaded (%v), using defaults\n", err)
	}

	var err error
	logFile, err = logging.OpenSessionLog(viper.GetString("logsDir"), appName, time.Now())
	if err != nil {
		return err
	}

	var fileWriter io.Writer
	if logFile != nil {
		fileWriter = logFile
	}
	logger = logging.Setup(fileWriter, viper.GetString("logLevel"))
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if logFile != nil {
		logFile.Close()
	}
}

func runSynth(cmd *cobra.Command, args []string) error {
	backend, err := storage.NewBackend(config.Storage(), logger)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return err
	}
	defer backend.Close()

	var metrics pipeline.Metrics
	if viper.GetBool("influx.enabled") {
		m := influx.NewManager(logger, filepath.Join(outDir, "metrics_backup.gz"))
		if err := m.Connect(); err != nil {
			logger.Warn().Err(err).Msg("metrics disabled")
		} else {
			defer m.Close()
			metrics = m
		}
	}

	synth := &pipeline.Synthesizer{
		Opts: pipeline.Options{
			RegionSize:     viper.GetFloat64("region.size"),
			ProjectionMode: viper.GetString("projection.mode"),
			HeightDefault:  viper.GetFloat64("height.default"),
			HeightFloor:    viper.GetFloat64("height.floor"),
			GroundZ:        viper.GetFloat64("ground.z"),
			OutputDir:      outDir,
			Workers:        workers,
		},
		Logger: logger,
	}

	runner := &pipeline.Runner{
		Synth:   synth,
		Backend: backend,
		Metrics: metrics,
		Logger:  logger,
	}
	return runner.Run(cmd.Context(), osmDir)
}

func runOverlay(cmd *cobra.Command, args []string) error {
	grid, txs, err := radio.ReadPowerGrid(gridFile)
	if err != nil {
		return err
	}
	occupancy, err := mask.LoadPNG(maskFile)
	if err != nil {
		return err
	}

	if policy == "" {
		policy = viper.GetString("composite.policy")
	}
	if fitMode == "" {
		fitMode = viper.GetString("composite.fit")
	}
	pol, err := composite.NewPolicy(policy)
	if err != nil {
		return err
	}

	c := &composite.Compositor{
		Params: composite.Params{
			VMin: viper.GetFloat64("composite.vmin"),
			VMax: viper.GetFloat64("composite.vmax"),
			Lo:   uint8(viper.GetInt("composite.lo")),
			Hi:   uint8(viper.GetInt("composite.hi")),
			Fit:  fitMode,
			Size: viper.GetInt("region.size"),
		},
		Policy: pol,
		Logger: logger,
	}

	out, err := c.Compose(grid, occupancy)
	if err != nil {
		return err
	}
	if err := composite.SavePNG(outFile, out, txs); err != nil {
		return err
	}
	logger.Info().Str("out", outFile).Int("tx", grid.Tx).Msg("wrote signal map")
	return nil
}

func runTxmap(cmd *cobra.Command, args []string) error {
	_, txs, err := radio.ReadPowerGrid(gridFile)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		return fmt.Errorf("%s carries no transmitter positions", gridFile)
	}

	base, err := composite.LoadPNG(baseFile)
	if err != nil {
		return err
	}
	if err := composite.SavePNG(outFile, base, txs); err != nil {
		return err
	}
	logger.Info().Str("out", outFile).Int("tx", len(txs)).Msg("wrote transmitter map")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
