package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ttacon/chalk"
	"github.com/urfave/cli"
	bettererrors "github.com/xtuc/better-errors"
	bettererrorstree "github.com/xtuc/better-errors/printer/tree"

	"github.com/Allegro-Leon-Li/SimulatorCore/common/utils"
	"github.com/Allegro-Leon-Li/SimulatorCore/events"
	"github.com/Allegro-Leon-Li/SimulatorCore/robot"
	"github.com/Allegro-Leon-Li/SimulatorCore/simulation"
	"github.com/Allegro-Leon-Li/SimulatorCore/vizserver"
)

func failWith(err error) {
	if bettererrors.IsBetterError(err) {
		msg := bettererrorstree.PrintChain(err.(*bettererrors.Chain))

		fmt.Println("")
		fmt.Println("❌  An error occurred.")
		fmt.Println("")
		fmt.Print(msg)
		fmt.Println("")

		os.Exit(1)
	} else {
		panic(err)
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "simulator"
	app.Usage = "Assemble robots from spec files and run the physics simulation"
	app.Version = utils.GetVersion()

	app.Flags = []cli.Flag{
		cli.StringSliceFlag{
			Name:  "spec",
			Usage: "Robot spec file (JSON); repeatable",
		},
		cli.IntFlag{
			Name:  "tps",
			Value: 60,
			Usage: "Ticks per second",
		},
		cli.IntFlag{
			Name:  "ticks",
			Value: 0,
			Usage: "Run this many synchronous ticks and exit (0 = run until interrupted)",
		},
		cli.StringFlag{
			Name:  "viz",
			Value: "",
			Usage: "Listen address of the viz websocket service (empty = disabled)",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Skip visual geometry; physics and update loop run unchanged",
		},
	}

	app.Action = func(c *cli.Context) error {
		run(
			c.StringSlice("spec"),
			c.Int("tps"),
			c.Int("ticks"),
			c.String("viz"),
			c.Bool("headless"),
		)
		return nil
	}

	app.Run(os.Args)
}

func run(specfiles []string, tps int, ticks int, vizaddr string, headless bool) {
	if len(specfiles) == 0 {
		failWith(bettererrors.New("No robot spec file given; use --spec"))
	}

	registry := events.NewRegistry("simulator")
	world := simulation.NewWorld(registry, tps)
	world.CreateFieldBoundary(12, 6, 0.5)

	for _, specfile := range specfiles {
		spec, err := robot.LoadSpecFile(specfile)
		if err != nil {
			failWith(err)
		}

		r := robot.NewRobot(spec, !headless)
		world.AddRobot(r)

		log.Print(chalk.Green)
		log.Println("Robot " + r.GetName() + " ready (" + specfile + ")")
		log.Print(chalk.Reset)
	}

	if ticks > 0 {
		dtMs := 1000.0 / float64(tps)
		for i := 0; i < ticks; i++ {
			world.Step(dtMs)
		}

		data, _ := json.Marshal(world.Frame())
		fmt.Println(string(data))
		return
	}

	if vizaddr != "" {
		viz := vizserver.NewVizService(vizaddr, registry)
		go func() {
			utils.Check(viz.ListenAndServe(), "Could not start viz service")
		}()
	}

	world.StartTicking()

	hassigtermed := make(chan os.Signal, 2)
	signal.Notify(hassigtermed, syscall.SIGTERM, syscall.SIGINT)
	<-hassigtermed

	world.Stop()
	utils.Debug("simulator", "Simulation stopped")
}
