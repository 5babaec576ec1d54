package gan_go

import (
	"fmt"

	rng "github.com/leesper/go_rng"
	"gorgonia.org/tensor"
)

// Prior Latent-space distribution the generator's inputs are drawn from.
type Prior uint16

const (
	// PriorUniform Uniform values in [-1.0;1.0)
	PriorUniform = Prior(iota)
	// PriorNormal Standard normal values
	PriorNormal
)

// latentSampler Owns RNG state for every latent-space draw the GAN performs.
type latentSampler struct {
	prior    Prior
	dim      int
	gaussian *rng.GaussianGenerator
	uniform  *rng.UniformGenerator
}

func newLatentSampler(prior Prior, dim int, seed int64) *latentSampler {
	return &latentSampler{
		prior:    prior,
		dim:      dim,
		gaussian: rng.NewGaussianGenerator(seed),
		uniform:  rng.NewUniformGenerator(seed),
	}
}

// batch Returns (n, dim) dense filled from the configured prior.
func (s *latentSampler) batch(n int) *tensor.Dense {
	data := make([]float64, n*s.dim)
	switch s.prior {
	case PriorNormal:
		for i := range data {
			data[i] = s.gaussian.StdGaussian()
		}
	default:
		for i := range data {
			data[i] = s.uniform.Float64Range(-1.0, 1.0)
		}
	}
	return tensor.New(tensor.WithShape(n, s.dim), tensor.WithBacking(data))
}

// point Returns a single latent vector of shape (dim).
func (s *latentSampler) point() *tensor.Dense {
	data := make([]float64, s.dim)
	switch s.prior {
	case PriorNormal:
		for i := range data {
			data[i] = s.gaussian.StdGaussian()
		}
	default:
		for i := range data {
			data[i] = s.uniform.Float64Range(-1.0, 1.0)
		}
	}
	return tensor.New(tensor.WithShape(s.dim), tensor.WithBacking(data))
}

// neighborhood Returns (n, dim) dense of copies of z perturbed with isotropic gaussian noise.
// Perturbation is always gaussian regardless of the configured prior.
func (s *latentSampler) neighborhood(z []float64, std float64, n int) (*tensor.Dense, error) {
	if len(z) != s.dim {
		return nil, fmt.Errorf("Latent point must have %d elements, but got %d", s.dim, len(z))
	}
	data := make([]float64, n*len(z))
	for i := 0; i < n; i++ {
		for j := range z {
			data[i*len(z)+j] = z[j] + s.gaussian.Gaussian(0.0, std)
		}
	}
	return tensor.New(tensor.WithShape(n, len(z)), tensor.WithBacking(data)), nil
}

// NormRandDense Return reference to tensor.Dense filled with normally distributed float64 values
//
// batchSize - Simply batch size
// n - Number of elements in each batch
// Resulting dense will have batchSize*n elements
//
func NormRandDense(batchSize, n int, seed int64) *tensor.Dense {
	gaussian := rng.NewGaussianGenerator(seed)
	data := make([]float64, batchSize*n)
	for i := range data {
		data[i] = gaussian.StdGaussian()
	}
	return tensor.New(tensor.WithShape(batchSize, n), tensor.WithBacking(data))
}

// UniformRandDense Return reference to tensor.Dense filled with pseudo-random float64 values in range [low,high)
//
// batchSize - Simply batch size
// n - Number of elements in each batch
// Resulting dense will have batchSize*n elements
//
func UniformRandDense(batchSize, n int, low, high float64, seed int64) *tensor.Dense {
	uniform := rng.NewUniformGenerator(seed)
	data := make([]float64, batchSize*n)
	for i := range data {
		data[i] = uniform.Float64Range(low, high)
	}
	return tensor.New(tensor.WithShape(batchSize, n), tensor.WithBacking(data))
}
