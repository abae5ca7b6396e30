package config

// DefaultConfigTOML is the commented configuration template written by
// `cide init`.
const DefaultConfigTOML = `# CIDE configuration file
# Near-duplicate detection settings for this project.

[engine]
# MinHash signature length. Longer signatures estimate similarity more
# accurately at higher cost. Must equal num_bands * rows_per_band.
# num_hashes = 128

# Character shingle width used when hashing document text.
# shingle_size = 3

# LSH band geometry. More bands with fewer rows lowers the effective
# candidate threshold; fewer bands with more rows raises it.
# num_bands = 16
# rows_per_band = 8

# Minimum estimated similarity for a pair to become a candidate.
# similarity_threshold = 0.5

[analysis]
# Language hint for the exact comparator: "python" or "text".
# language = "python"

# Run the MinHash pre-filter before exact comparison.
# optimized = true

[input]
# recursive = true
# include_patterns = ["**/*.py"]
# exclude_patterns = ["**/test_*.py", "**/*_test.py"]

[output]
# Output format: "text", "json", "yaml", or "csv".
# format = "text"

# Sort results by "similarity" or "name".
# sort_by = "similarity"

# show_details = false

[clustering]
# Group near-duplicate files into clusters.
# enabled = false

# Minimum similarity for cluster membership.
# threshold = 0.75
`
