package release_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/implantsim/internal/release"
)

func nonDecreasing(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			return false
		}
	}
	return true
}

var _ = Describe("Basic release", func() {
	It("starts at zero and approaches the dose", func() {
		s, err := release.BasicRelease(1.0, 0.5, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Len()).To(Equal(release.StandardSamples))
		Expect(s.Times[0]).To(Equal(0.0))
		Expect(s.Values[0]).To(Equal(0.0))
		Expect(s.Times[s.Len()-1]).To(Equal(10.0))
		Expect(s.Last()).To(BeNumerically("~", 1-math.Exp(-5), 1e-12))
		Expect(s.Last()).To(BeNumerically("~", 0.9933, 1e-4))
	})

	It("is non-decreasing and bounded by the dose", func() {
		for _, dose := range []float64{0.1, 1, 5} {
			for _, rate := range []float64{0.1, 0.5, 2} {
				s, err := release.BasicRelease(dose, rate, 500)
				Expect(err).NotTo(HaveOccurred())
				Expect(nonDecreasing(s.Values)).To(BeTrue())
				for _, v := range s.Values {
					Expect(v).To(BeNumerically("<=", dose+1e-12))
				}
				Expect(s.Last()).To(BeNumerically("~", dose, 1e-9))
			}
		}
	})

	It("is bit-identical across calls", func() {
		a, _ := release.BasicRelease(2.3, 0.7, 17)
		b, _ := release.BasicRelease(2.3, 0.7, 17)
		Expect(a).To(Equal(b))
	})
})

var _ = Describe("Surface degradation", func() {
	It("equals e^-1 at t=10 for k=0.1", func() {
		s, err := release.SurfaceDegradation(0.1, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Values[0]).To(Equal(1.0))
		Expect(s.Last()).To(BeNumerically("~", math.Exp(-1), 1e-12))
		Expect(s.Last()).To(BeNumerically("~", 0.3679, 1e-4))
	})

	It("stays in (0, 1] for positive k", func() {
		s, err := release.SurfaceDegradation(1.0, 30)
		Expect(err).NotTo(HaveOccurred())
		for _, v := range s.Values {
			Expect(v).To(BeNumerically(">", 0))
			Expect(v).To(BeNumerically("<=", 1))
		}
	})
})

var _ = Describe("Burst release", func() {
	It("is basic release plus a constant offset", func() {
		base, err := release.BasicRelease(1.5, 0.3, 12)
		Expect(err).NotTo(HaveOccurred())
		burst, err := release.BurstRelease(1.5, 0.3, 0.5, 12)
		Expect(err).NotTo(HaveOccurred())
		Expect(burst.Times).To(Equal(base.Times))
		for i := range base.Values {
			Expect(burst.Values[i]).To(Equal(base.Values[i] + 0.5))
		}
	})
})

var _ = Describe("Cumulative release", func() {
	It("approximates the closed form within discretisation error", func() {
		s, err := release.CumulativeRelease(1.0, 0.5, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Len()).To(Equal(release.StandardSamples))
		Expect(s.Last()).To(BeNumerically("~", 1-math.Exp(-5), 0.02))
	})

	It("carries one step of rate in the first sample", func() {
		s, _ := release.CumulativeRelease(1.0, 0.5, 10)
		Expect(s.Values[0]).To(BeNumerically("~", 0.5*0.1, 1e-12))
	})

	It("is non-decreasing for positive dose and rate", func() {
		s, err := release.CumulativeRelease(3, 1.7, 25)
		Expect(err).NotTo(HaveOccurred())
		Expect(nonDecreasing(s.Values)).To(BeTrue())
	})
})

var _ = Describe("Variant models", func() {
	It("clamps linear degradation at zero", func() {
		s, err := release.Coarse.LinearDegradation(50, 10, 30)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Len()).To(Equal(release.CoarseSamples))
		Expect(s.Values[0]).To(Equal(50.0))
		for _, v := range s.Values {
			Expect(v).To(BeNumerically(">=", 0))
		}
		Expect(s.Last()).To(Equal(0.0))
	})

	It("evaluates the square-root law", func() {
		s, err := release.Coarse.SqrtRelease(2, 16)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Last()).To(BeNumerically("~", 8, 1e-12))
		Expect(nonDecreasing(s.Values)).To(BeTrue())
	})

	It("evaluates the exponential dose", func() {
		s, err := release.Coarse.ExponentialDose(100, 0.1, 30)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Last()).To(BeNumerically("~", 100*(1-math.Exp(-3)), 1e-9))
	})

	It("evaluates the logarithmic law", func() {
		s, err := release.Coarse.LogRelease(1.5, math.E-1)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Values[0]).To(Equal(0.0))
		Expect(s.Last()).To(BeNumerically("~", 1.5, 1e-12))
	})
})

var _ = Describe("3D surface", func() {
	It("pairs equal-length sweeps", func() {
		surf, err := release.ReleaseSurface(release.DefaultSurfaceParams())
		Expect(err).NotTo(HaveOccurred())
		Expect(surf.Len()).To(Equal(release.CoarseSamples))
		Expect(surf.Thickness).To(HaveLen(surf.Len()))
		Expect(surf.Rates).To(HaveLen(surf.Len()))
		Expect(surf.Thickness[0]).To(Equal(10.0))
		Expect(surf.Thickness[surf.Len()-1]).To(Equal(40.0))
		Expect(surf.Rates[0]).To(BeNumerically("~", 1.2+0.1*math.Sin(2), 1e-12))
		Expect(surf.Rates[surf.Len()-1]).To(BeNumerically("~", 1.2*math.Exp(-1.5)+0.1*math.Sin(8), 1e-12))
	})
})

var _ = Describe("Degenerate horizons", func() {
	type op func(days float64) (release.Series, error)
	ops := map[string]op{
		"basic":      func(d float64) (release.Series, error) { return release.BasicRelease(1, 0.5, d) },
		"surface":    func(d float64) (release.Series, error) { return release.SurfaceDegradation(0.1, d) },
		"burst":      func(d float64) (release.Series, error) { return release.BurstRelease(1, 0.5, 0.5, d) },
		"cumulative": func(d float64) (release.Series, error) { return release.CumulativeRelease(1, 0.5, d) },
		"sqrt":       func(d float64) (release.Series, error) { return release.Coarse.SqrtRelease(1, d) },
		"linear":     func(d float64) (release.Series, error) { return release.Coarse.LinearDegradation(50, 1, d) },
		"dose":       func(d float64) (release.Series, error) { return release.Coarse.ExponentialDose(100, 0.1, d) },
		"log":        func(d float64) (release.Series, error) { return release.Coarse.LogRelease(1, d) },
	}

	for name, fn := range ops {
		name, fn := name, fn
		It("returns a single t=0 sample for "+name, func() {
			for _, days := range []float64{0, -5} {
				s, err := fn(days)
				Expect(err).NotTo(HaveOccurred())
				Expect(s.Times).To(Equal([]float64{0}))
				Expect(s.Values).To(HaveLen(1))
			}
		})
	}

	It("reports zero cumulative release", func() {
		s, err := release.CumulativeRelease(1, 0.5, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Values).To(Equal([]float64{0}))
	})

	It("collapses the surface to one point", func() {
		p := release.DefaultSurfaceParams()
		p.Days = 0
		surf, err := release.ReleaseSurface(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(surf.Len()).To(Equal(1))
		Expect(surf.Thickness).To(Equal([]float64{p.ThicknessMin}))
	})
})

var _ = Describe("Validation", func() {
	It("rejects non-finite parameters", func() {
		_, err := release.BasicRelease(math.NaN(), 0.5, 10)
		Expect(errors.Is(err, release.ErrNonFinite)).To(BeTrue())

		var pe *release.ParamError
		Expect(errors.As(err, &pe)).To(BeTrue())
		Expect(pe.Name).To(Equal("dose"))

		_, err = release.SurfaceDegradation(0.1, math.Inf(1))
		Expect(err).To(MatchError(release.ErrNonFinite))

		_, err = release.BurstRelease(1, 0.5, math.Inf(-1), 10)
		Expect(err).To(MatchError(release.ErrNonFinite))
	})

	It("evaluates negative coefficients without error", func() {
		s, err := release.BasicRelease(-1, -0.5, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Len()).To(Equal(release.StandardSamples))
	})

	It("rejects an empty sampler", func() {
		_, err := release.Sampler{}.Basic(1, 0.5, 10)
		Expect(err).To(MatchError(release.ErrSampleCount))
	})
})
