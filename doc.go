// Package pathogenx holds the input helpers shared by the pathogenx readers:
// opening local or gs:// paths, transparent decompression and delimiter
// detection. The analysis itself lives in the table, distance, cluster,
// dataset and prevalence packages.
package pathogenx
