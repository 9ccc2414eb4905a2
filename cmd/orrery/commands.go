package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/oxygene76/orrery/internal/types"
	"github.com/oxygene76/orrery/pkg/astronomy/catalog"
	"github.com/oxygene76/orrery/pkg/orrery/stream"
	"github.com/oxygene76/orrery/pkg/utils"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cdd6f4"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
)

// initCmd writes a default configuration file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			p, err := utils.DefaultConfigPath()
			if err != nil {
				return fmt.Errorf("failed to resolve home directory: %w", err)
			}
			path = p
		}

		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("config %s already exists (use --force to overwrite)", path)
		}

		if err := utils.SaveConfig(utils.DefaultConfig(), path); err != nil {
			return err
		}
		fmt.Printf("Configuration written to %s\n", path)
		return nil
	},
}

// bodiesCmd prints the body catalog
var bodiesCmd = &cobra.Command{
	Use:   "bodies",
	Short: "List the bodies of the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(config)
		if err != nil {
			return err
		}

		asYAML, _ := cmd.Flags().GetBool("yaml")
		if asYAML {
			data, err := cat.Marshal()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		}

		fmt.Println(renderBodies(cat))
		return nil
	},
}

func renderBodies(cat *catalog.Catalog) string {
	cols := []struct {
		title string
		width int
	}{{"#", 3}, {"ID", 9}, {"NAME", 9}, {"RADIUS", 8}, {"DIST", 7}, {"ORBIT", 7}, {"SPIN", 7}, {"TILT", 7}}

	var b strings.Builder
	for _, c := range cols {
		b.WriteString(headerStyle.Width(c.width).Render(c.title))
	}
	b.WriteByte('\n')

	for i, body := range cat.Bodies() {
		name := lipgloss.NewStyle().Foreground(lipgloss.Color(body.Color)).Width(cols[2].width).Render(body.Name)
		cells := []string{
			lipgloss.NewStyle().Width(cols[0].width).Render(fmt.Sprint(i)),
			lipgloss.NewStyle().Width(cols[1].width).Render(string(body.ID)),
			name,
			lipgloss.NewStyle().Width(cols[3].width).Render(fmt.Sprintf("%.2f", body.Radius)),
			lipgloss.NewStyle().Width(cols[4].width).Render(fmt.Sprintf("%.1f", body.OrbitDistance)),
			lipgloss.NewStyle().Width(cols[5].width).Render(fmt.Sprintf("%.1f", body.OrbitSpeed)),
			lipgloss.NewStyle().Width(cols[6].width).Render(fmt.Sprintf("%+.1f", body.RotationSpeed)),
			lipgloss.NewStyle().Width(cols[7].width).Render(fmt.Sprintf("%.1f", body.AxialTilt)),
		}
		b.WriteString(strings.Join(cells, ""))
		if body.Retrograde() {
			b.WriteString(mutedStyle.Render(" retrograde"))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// simulateCmd runs a fixed-step simulation and records frames
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a fixed-step simulation and write frames as JSON lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		duration, _ := cmd.Flags().GetDuration("duration")
		dt, _ := cmd.Flags().GetDuration("dt")
		out, _ := cmd.Flags().GetString("out")
		every, _ := cmd.Flags().GetInt("every")
		selected, _ := cmd.Flags().GetString("select")

		if dt <= 0 || duration <= 0 {
			return fmt.Errorf("duration and dt must be positive")
		}
		if every < 1 {
			every = 1
		}
		if out == "" {
			out = config.Output.FramesPath
		}

		sim, err := newSimulation(config)
		if err != nil {
			return err
		}
		if selected != "" {
			if err := sim.ApplyCommand(types.ControlCommand{Command: types.CommandSelect, BodyID: selected}); err != nil {
				return err
			}
		}

		var sink *stream.JSONLFrameWriter
		switch out {
		case "":
		case "-":
			sink = stream.NewJSONLFrameWriter(os.Stdout)
		default:
			sink, err = stream.CreateJSONLFile(out)
			if err != nil {
				return fmt.Errorf("failed to create output: %w", err)
			}
		}

		steps := int(duration / dt)
		logger.Info("starting simulation", "steps", steps, "dt", dt.String(), "out", out)

		radii := make(map[string][]float64)
		ctx := context.Background()
		start := time.Now()
		for i := 1; i <= steps; i++ {
			sim.Tick(dt.Seconds())
			if i%every != 0 && i != steps {
				continue
			}
			msg := sim.Message()
			collectRadii(radii, msg)
			if sink != nil {
				if err := sink.OnFrame(ctx, msg); err != nil {
					return err
				}
			}
		}
		if sink != nil && out != "-" {
			if err := sink.Close(); err != nil {
				return err
			}
		} else if sink != nil {
			if err := sink.Flush(); err != nil {
				return err
			}
		}

		logger.Info("simulation finished", "took", time.Since(start).String(), "phase", sim.State().Phase.String())
		if out != "-" {
			fmt.Println(renderSummary(sim.Catalog(), radii, sim.Clock().OrbitTime))
		}
		return nil
	},
}

// collectRadii records each orbiting body's world distance from the center
func collectRadii(into map[string][]float64, msg types.FrameMessage) {
	if len(msg.Bodies) == 0 {
		return
	}
	c := msg.Bodies[0].World
	for _, b := range msg.Bodies[1:] {
		into[b.ID] = append(into[b.ID], math.Hypot(b.World.X-c.X, b.World.Z-c.Z))
	}
}

func renderSummary(cat *catalog.Catalog, radii map[string][]float64, orbitTime float64) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("orbit time %.2fs", orbitTime)))
	b.WriteByte('\n')
	for _, body := range cat.Planets() {
		r := radii[string(body.ID)]
		if len(r) == 0 {
			continue
		}
		mean, std := stat.MeanStdDev(r, nil)
		fmt.Fprintf(&b, "  %-9s radius %.4f ± %.4f  (%d samples)\n", body.Name, mean, std, len(r))
	}
	return strings.TrimRight(b.String(), "\n")
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")

	bodiesCmd.Flags().Bool("yaml", false, "print the catalog as YAML")

	simulateCmd.Flags().Duration("duration", 60*time.Second, "simulated wall time")
	simulateCmd.Flags().Duration("dt", time.Second/60, "fixed step")
	simulateCmd.Flags().String("out", "", "JSON lines output file, - for stdout (default output.frames_path)")
	simulateCmd.Flags().Int("every", 1, "record every n-th step")
	simulateCmd.Flags().String("select", "", "body to select before running")
}
