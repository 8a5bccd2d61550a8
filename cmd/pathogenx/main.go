// pathogenx joins pathogen genotype calls, sample metadata and pairwise SNP
// distances, clusters closely related isolates and reports stratified,
// cluster-adjusted prevalence.
//
// Every input may be a local path or a gs://bucket/object URL and may be
// gzip, bzip2, xz, zlib or zip compressed. Results are written to STDOUT as
// tab-delimited text.
package main

func main() {
	Execute()
}
