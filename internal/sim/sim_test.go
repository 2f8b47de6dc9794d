package sim_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hepv-lab/hepvsim/internal/config"
	"github.com/hepv-lab/hepvsim/internal/cycle"
	"github.com/hepv-lab/hepvsim/internal/sim"
	"github.com/hepv-lab/hepvsim/internal/tank"
)

var _ = Describe("Battery", func() {
	It("floors at empty on draw", func() {
		b := sim.Battery{Energy: 100, Capacity: 1000}
		b.Draw(500)
		Expect(b.Energy).To(Equal(0.0))
		Expect(b.SoC()).To(Equal(0.0))
	})

	It("caps charge at the SoC ceiling", func() {
		b := sim.Battery{Energy: 900, Capacity: 1000}
		b.Charge(500, 0.98)
		Expect(b.Energy).To(Equal(980.0))

		// Already at the ceiling: nothing accepted.
		b.Charge(500, 0.98)
		Expect(b.Energy).To(Equal(980.0))
	})
})

var _ = Describe("SingleSource", func() {
	var (
		params config.Params
		times  []float64
		speeds []float64
	)

	BeforeEach(func() {
		params = config.DefaultParams()
		var err error
		times, speeds, err = cycle.Generate(80, 0.1)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects mismatched series", func() {
		_, err := sim.NewSingleSource(params).Run(context.Background(), times, speeds[:10])
		Expect(err).To(HaveOccurred())
	})

	It("rejects series shorter than two samples", func() {
		_, err := sim.NewSingleSource(params).Run(context.Background(), times[:1], speeds[:1])
		Expect(err).To(HaveOccurred())
	})

	It("rejects invalid parameters", func() {
		params.BatteryKWh = 0
		_, err := sim.NewSingleSource(params).Run(context.Background(), times, speeds)
		Expect(err).To(HaveOccurred())
	})

	It("produces a complete, bounded trajectory over one urban period", func() {
		res, err := sim.NewSingleSource(params).Run(context.Background(), times, speeds)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Steps()).To(Equal(len(times)))
		Expect(res.SoC).To(HaveLen(len(times)))
		Expect(res.TankPressureBar).To(BeEmpty())

		for k, soc := range res.SoC {
			Expect(soc).To(And(BeNumerically(">=", 0), BeNumerically("<=", 1)), "soc at step %d", k)
		}
		for k, pm := range res.Demand {
			Expect(pm).To(BeNumerically(">=", -params.BrakePowerMax), "demand at step %d", k)
			Expect(pm).To(BeNumerically("<=", params.MotorPowerMax), "demand at step %d", k)
		}
	})

	It("consumes net energy over a cycle with stops and starts", func() {
		res, err := sim.NewSingleSource(params).Run(context.Background(), times, speeds)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.TotalEnergyKWh).To(BeNumerically(">", 0))
		Expect(res.TotalEnergyKWh).To(BeNumerically("<", params.BatteryKWh))
	})

	It("is deterministic", func() {
		a, err := sim.NewSingleSource(params).Run(context.Background(), times, speeds)
		Expect(err).NotTo(HaveOccurred())
		b, err := sim.NewSingleSource(params).Run(context.Background(), times, speeds)
		Expect(err).NotTo(HaveOccurred())

		Expect(a.TotalEnergyKWh).To(Equal(b.TotalEnergyKWh))
		Expect(a.SoC[len(a.SoC)-1]).To(Equal(b.SoC[len(b.SoC)-1]))
	})

	It("stops on context cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := sim.NewSingleSource(params).Run(ctx, times, speeds)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("DualSource", func() {
	var (
		params config.Params
		times  []float64
		speeds []float64
	)

	BeforeEach(func() {
		params = config.DefaultParams()
		var err error
		times, speeds, err = cycle.Generate(400, 0.1)
		Expect(err).NotTo(HaveOccurred())
	})

	It("keeps the tank within its physical envelope", func() {
		res, err := sim.NewDualSource(params).Run(context.Background(), times, speeds)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.TankPressureBar).To(HaveLen(len(times)))
		for k := range res.TankPressureBar {
			Expect(res.TankPressureBar[k]).To(BeNumerically(">=", params.AmbientPres/1e5), "pressure at step %d", k)
			Expect(res.TankPressureBar[k]).To(BeNumerically("<=", params.PressureMax/1e5), "pressure at step %d", k)
			Expect(res.TankTempC[k]).To(BeNumerically(">=", tank.TempMin-273.15), "temperature at step %d", k)
			Expect(res.TankTempC[k]).To(BeNumerically("<=", tank.TempMax-273.15), "temperature at step %d", k)
			Expect(res.TankMassKg[k]).To(BeNumerically(">", 0), "mass at step %d", k)
		}
	})

	It("keeps SoC in bounds and counts usage within the step count", func() {
		res, err := sim.NewDualSource(params).Run(context.Background(), times, speeds)
		Expect(err).NotTo(HaveOccurred())

		for k, soc := range res.SoC {
			Expect(soc).To(And(BeNumerically(">=", 0), BeNumerically("<=", 1)), "soc at step %d", k)
		}
		Expect(res.PneumaticUse).To(BeNumerically(">=", 0))
		Expect(res.PneumaticUse).To(BeNumerically("<", res.Steps()))
	})

	It("engages the pneumatic path once the demand gate admits it", func() {
		// The stock urban cycle peaks just under the 8 kW gate inside the
		// 35 km/h window, so lower the gate to force engagement.
		params.PneuPowerMin = 4_000
		res, err := sim.NewDualSource(params).Run(context.Background(), times, speeds)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.PneumaticUse).To(BeNumerically(">", 0))

		positive := 0
		for k := range res.Pneumatic {
			if res.Pneumatic[k] > 0 {
				positive++
				Expect(res.Electric[k]).To(BeNumerically(">", 0), "electric share at step %d", k)
			}
		}
		Expect(positive).To(Equal(res.PneumaticUse))
	})

	It("never drives the wheels pneumatically when the gate is closed", func() {
		params.PneuPowerMin = 1e9
		res, err := sim.NewDualSource(params).Run(context.Background(), times, speeds)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.PneumaticUse).To(Equal(0))
		for k := range res.Pneumatic {
			// Regen into the tank shows up as negative pneumatic power.
			Expect(res.Pneumatic[k]).To(BeNumerically("<=", 0), "pneumatic power at step %d", k)
		}
	})

	It("is deterministic", func() {
		a, err := sim.NewDualSource(params).Run(context.Background(), times, speeds)
		Expect(err).NotTo(HaveOccurred())
		b, err := sim.NewDualSource(params).Run(context.Background(), times, speeds)
		Expect(err).NotTo(HaveOccurred())

		Expect(a.TotalEnergyKWh).To(Equal(b.TotalEnergyKWh))
		Expect(a.PneumaticUse).To(Equal(b.PneumaticUse))
		Expect(a.TankPressureBar[len(a.TankPressureBar)-1]).To(Equal(b.TankPressureBar[len(b.TankPressureBar)-1]))
	})
})

var _ = Describe("Compare", func() {
	It("runs both configurations over the same cycle", func() {
		params := config.DefaultParams()
		times, speeds, err := cycle.Generate(160, 0.1)
		Expect(err).NotTo(HaveOccurred())

		cmp, err := sim.Compare(context.Background(), times, speeds, params)
		Expect(err).NotTo(HaveOccurred())

		Expect(cmp.Single.Steps()).To(Equal(cmp.Dual.Steps()))
		Expect(cmp.Single.TotalEnergyKWh).To(BeNumerically(">", 0))
		Expect(cmp.Dual.TotalEnergyKWh).To(BeNumerically(">", 0))
		Expect(cmp.EnergyDeltaKWh()).To(Equal(cmp.Dual.TotalEnergyKWh - cmp.Single.TotalEnergyKWh))
	})

	It("propagates run errors", func() {
		params := config.DefaultParams()
		params.TankVolume = 0
		times, speeds, err := cycle.Generate(80, 0.1)
		Expect(err).NotTo(HaveOccurred())

		_, err = sim.Compare(context.Background(), times, speeds, params)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Sweep", func() {
	It("preserves input order", func() {
		times, speeds, err := cycle.Generate(80, 0.1)
		Expect(err).NotTo(HaveOccurred())

		light := config.DefaultParams()
		heavy := config.DefaultParams()
		heavy.BaseMass = 900

		results, err := sim.Sweep(context.Background(), times, speeds, []config.Params{light, heavy})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(2))

		// More mass, more energy.
		Expect(results[1].TotalEnergyKWh).To(BeNumerically(">", results[0].TotalEnergyKWh))
	})

	It("fails when any parameter set is invalid", func() {
		times, speeds, err := cycle.Generate(80, 0.1)
		Expect(err).NotTo(HaveOccurred())

		bad := config.DefaultParams()
		bad.GearRatio = -1

		_, err = sim.Sweep(context.Background(), times, speeds, []config.Params{config.DefaultParams(), bad})
		Expect(err).To(HaveOccurred())
	})
})
