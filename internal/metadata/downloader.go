package metadata

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"
)

// DefaultServiceIndex is the NuGet v3 service index of nuget.org.
const DefaultServiceIndex string = "https://api.nuget.org/v3/index.json"

// Downloader fetches a NuGet package and extracts a library together with its
// XML documentation file.
type Downloader struct {
	ServiceIndex string
	Client       *http.Client
	Logger       *slog.Logger
}

func NewDownloader(logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Downloader{
		ServiceIndex: DefaultServiceIndex,
		Client:       http.DefaultClient,
		Logger:       logger,
	}
}

// DownloadPackage downloads the package with the given id into destination and
// returns the path of the extracted library. An empty requested version selects
// the latest stable release.
func (downloader *Downloader) DownloadPackage(ctx context.Context, id, requested, destination string) (string, error) {
	baseAddress, err := downloader.getBaseAddress(ctx)
	if err != nil {
		return "", err
	}

	packageName := strings.ToLower(id)
	packageVersion := requested
	if packageVersion == "" {
		packageVersion, err = downloader.latestVersion(ctx, baseAddress, packageName)
		if err != nil {
			return "", err
		}
	}
	packageVersion = strings.ToLower(packageVersion)

	downloader.Logger.Debug("Downloading package", "id", id, "version", packageVersion)
	nugetBytes, err := downloader.queryGet(ctx, fmt.Sprintf("%s%s/%s/%s.%s.nupkg", baseAddress, packageName, packageVersion, packageName, packageVersion))
	if err != nil {
		return "", err
	}

	bytesReader := bytes.NewReader(nugetBytes)
	nuget, err := zip.NewReader(bytesReader, int64(bytesReader.Len()))
	if err != nil {
		return "", fmt.Errorf("package %s %s is not a valid archive: %w", id, packageVersion, err)
	}

	library, documentation, err := selectLibrary(nuget, packageName)
	if err != nil {
		return "", fmt.Errorf("package %s %s: %w", id, packageVersion, err)
	}

	if err := os.MkdirAll(destination, os.ModePerm); err != nil {
		return "", err
	}

	libraryPath := filepath.Join(destination, path.Base(library.Name))
	if err := extractFile(library, libraryPath); err != nil {
		return "", err
	}
	if documentation != nil {
		if err := extractFile(documentation, filepath.Join(destination, path.Base(documentation.Name))); err != nil {
			return "", err
		}
	}

	return libraryPath, nil
}

func (downloader *Downloader) latestVersion(ctx context.Context, baseAddress, packageName string) (string, error) {
	versionsResponse, err := downloader.queryGet(ctx, fmt.Sprintf("%s%s/index.json", baseAddress, packageName))
	if err != nil {
		return "", err
	}
	versions, err := parse[map[string][]string](versionsResponse)
	if err != nil {
		return "", err
	}

	orderedVersions := make([]*version.Version, 0, len(versions["versions"]))
	for _, versionString := range versions["versions"] {
		parsed, err := version.NewVersion(versionString)
		if err != nil {
			return "", fmt.Errorf("error parsing version: %s", versionString)
		}
		if parsed.Prerelease() == "" {
			orderedVersions = append(orderedVersions, parsed)
		}
	}
	if len(orderedVersions) == 0 {
		return "", fmt.Errorf("package %s has no stable versions", packageName)
	}

	sort.Sort(version.Collection(orderedVersions))
	return orderedVersions[len(orderedVersions)-1].Original(), nil
}

// selectLibrary picks the lib/ assembly named after the package, preferring the
// last target framework in path order that ships an XML documentation file.
func selectLibrary(nuget *zip.Reader, packageName string) (library, documentation *zip.File, err error) {
	entries := make(map[string]*zip.File, len(nuget.File))
	var candidates []string
	for _, file := range nuget.File {
		entries[strings.ToLower(file.Name)] = file
		name := strings.ToLower(file.Name)
		if strings.HasPrefix(name, "lib/") && path.Base(name) == packageName+".dll" {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return nil, nil, fmt.Errorf("no library named %s.dll under lib/", packageName)
	}

	sort.Strings(candidates)
	for i := len(candidates) - 1; i >= 0; i-- {
		if doc, found := entries[strings.TrimSuffix(candidates[i], ".dll")+".xml"]; found {
			return entries[candidates[i]], doc, nil
		}
	}

	return entries[candidates[len(candidates)-1]], nil, nil
}

func extractFile(file *zip.File, destination string) error {
	reader, err := file.Open()
	if err != nil {
		return err
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	return os.WriteFile(destination, content, 0644)
}

func (downloader *Downloader) getBaseAddress(ctx context.Context) (string, error) {
	response, err := downloader.queryGet(ctx, downloader.ServiceIndex)
	if err != nil {
		return "", err
	}
	nugetIndex, err := parse[nugetIndex](response)
	if err != nil {
		return "", err
	}

	for _, resource := range nugetIndex.Resources {
		if strings.Contains(resource.Type, "PackageBaseAddress") {
			if !strings.HasSuffix(resource.Id, "/") {
				return resource.Id + "/", nil
			}
			return resource.Id, nil
		}
	}

	return "", fmt.Errorf("service index %s has no PackageBaseAddress resource", downloader.ServiceIndex)
}

func parse[T interface{}](source []byte) (T, error) {
	var parsedBody T
	err := json.Unmarshal(source, &parsedBody)
	return parsedBody, err
}

func (downloader *Downloader) queryGet(ctx context.Context, url string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	response, err := downloader.Client.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, response.Status)
	}

	return io.ReadAll(response.Body)
}

type nugetIndex struct {
	Resources []nugetResource `json:"resources"`
}

type nugetResource struct {
	Id   string `json:"@id"`
	Type string `json:"@type"`
}
